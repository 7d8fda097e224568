package utils

import (
	"github.com/skip2/go-qrcode"
)

// PaymentLinkQR encode l'URL d'un lien de paiement en PNG
func PaymentLinkQR(url string, size int) ([]byte, error) {
	if size <= 0 {
		size = 256
	}
	return qrcode.Encode(url, qrcode.Medium, size)
}
