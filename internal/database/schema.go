package database

import (
	"fmt"
	"log"

	"github.com/gocql/gocql"
)

const createKeyspaceCQL = `CREATE KEYSPACE IF NOT EXISTS %s
	WITH replication = {'class': 'SimpleStrategy', 'replication_factor': 1}`

// schema est appliqué à chaque démarrage ; toutes les instructions sont idempotentes
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		user_id uuid PRIMARY KEY,
		username text,
		email text,
		password text,
		profile_picture text,
		login_history list<timestamp>,
		created_at timestamp,
		updated_at timestamp
	)`,
	`CREATE TABLE IF NOT EXISTS users_by_email (
		email text PRIMARY KEY,
		user_id uuid
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		product_id uuid PRIMARY KEY,
		user_id text,
		product_name text,
		price text,
		location text,
		category text,
		username text,
		phone_number text,
		description text,
		created_at timestamp,
		updated_at timestamp
	)`,
	`CREATE TABLE IF NOT EXISTS product_pictures (
		picture_id uuid PRIMARY KEY,
		product_id uuid,
		object_key text,
		created_at timestamp,
		updated_at timestamp
	)`,
	`CREATE TABLE IF NOT EXISTS adverts (
		advert_id uuid PRIMARY KEY,
		user_id text,
		image_key text,
		created_at timestamp,
		expires_at timestamp
	) WITH default_time_to_live = 86400`,
	`CREATE INDEX IF NOT EXISTS ON adverts (user_id)`,
	`CREATE TABLE IF NOT EXISTS messages (
		message_id timeuuid PRIMARY KEY,
		sender text,
		recipient text,
		content text,
		created_at timestamp
	)`,
	`CREATE INDEX IF NOT EXISTS ON messages (recipient)`,
	`CREATE INDEX IF NOT EXISTS ON messages (sender)`,
	`CREATE TABLE IF NOT EXISTS ratings (
		rating_id uuid PRIMARY KEY,
		product_id text,
		rating int,
		comment text,
		created_at timestamp,
		updated_at timestamp
	)`,
	`CREATE INDEX IF NOT EXISTS ON ratings (product_id)`,
	`CREATE TABLE IF NOT EXISTS notifications (
		notification_id uuid PRIMARY KEY,
		user_id text,
		message_id text,
		message text,
		read boolean,
		created_at timestamp
	)`,
	`CREATE TABLE IF NOT EXISTS notification_settings (
		user_id text PRIMARY KEY,
		email_notifications boolean,
		sms_notifications boolean,
		push_notifications boolean,
		email_frequency text,
		sms_frequency text,
		push_frequency text,
		last_updated timestamp
	)`,
	`CREATE TABLE IF NOT EXISTS favourite_products (
		user_id text,
		product_id text,
		added_at timestamp,
		PRIMARY KEY (user_id, product_id)
	)`,
	`CREATE INDEX IF NOT EXISTS ON favourite_products (product_id)`,
	`CREATE TABLE IF NOT EXISTS orders_by_user (
		user_id text,
		created_at timestamp,
		link_id text,
		url text,
		total_amount text,
		order_date text,
		PRIMARY KEY (user_id, created_at, link_id)
	) WITH CLUSTERING ORDER BY (created_at DESC, link_id ASC)`,
}

// EnsureSchema crée les tables et index manquants
func EnsureSchema(session *gocql.Session) error {
	for _, stmt := range schema {
		if err := session.Query(stmt).Exec(); err != nil {
			return fmt.Errorf("schéma ScyllaDB: %w", err)
		}
	}
	log.Printf("✅ Schéma ScyllaDB vérifié (%d instructions)", len(schema))
	return nil
}
