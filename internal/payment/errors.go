package payment

import (
	"errors"
	"fmt"
)

// ValidationError signale une entrée invalide (HTTP 400)
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// ProviderError enveloppe toute erreur renvoyée par le prestataire de paiement (HTTP 500)
type ProviderError struct {
	Op  string
	Err error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("payment provider %s: %v", e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// SignatureError signale un webhook dont la signature n'a pas pu être vérifiée (HTTP 400)
type SignatureError struct {
	Err error
}

func (e *SignatureError) Error() string {
	return fmt.Sprintf("webhook signature verification failed: %v", e.Err)
}

func (e *SignatureError) Unwrap() error { return e.Err }

// MalformedMetadataError n'est jamais fatale : l'enregistrement concerné est dégradé.
type MalformedMetadataError struct {
	Key string
	Err error
}

func (e *MalformedMetadataError) Error() string {
	return fmt.Sprintf("metadata %q malformed: %v", e.Key, e.Err)
}

func (e *MalformedMetadataError) Unwrap() error { return e.Err }

func providerErr(op string, err error) error {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return err
	}
	return &ProviderError{Op: op, Err: err}
}

// IsValidation indique si err est (ou enveloppe) une ValidationError
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsProvider indique si err est (ou enveloppe) une ProviderError
func IsProvider(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe)
}

// IsSignature indique si err est (ou enveloppe) une SignatureError
func IsSignature(err error) bool {
	var se *SignatureError
	return errors.As(err, &se)
}
