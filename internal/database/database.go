package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"marketplace_back_end/internal/cache"
	"marketplace_back_end/internal/config"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/gocql/gocql"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/redis/go-redis/v9"
)

// Connections regroupe les clients ouverts au démarrage. Elastic et MinIO
// sont facultatifs : nil quand ils ne sont pas configurés.
type Connections struct {
	Scylla  *gocql.Session
	Redis   *redis.Client
	Elastic *elasticsearch.Client
	MinIO   *minio.Client
}

// ConnectDatabases ouvre toutes les connexions et crée le schéma ScyllaDB
func ConnectDatabases(cfg *config.Config) (*Connections, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	conns := &Connections{}

	// 1. ScyllaDB
	session, err := connectScylla(cfg.Scylla)
	if err != nil {
		return nil, fmt.Errorf("échec initialisation ScyllaDB: %w", err)
	}
	conns.Scylla = session

	// 2. Redis
	rdb, err := cache.Connect(ctx, cfg.Redis)
	if err != nil {
		conns.Close()
		return nil, err
	}
	conns.Redis = rdb

	// 3. Elasticsearch
	if cfg.Elastic.URL != "" {
		es, err := connectElastic(cfg.Elastic)
		if err != nil {
			conns.Close()
			return nil, err
		}
		conns.Elastic = es
	} else {
		log.Println("⚠️ ELASTIC_URL absent : recherche produits en mode dégradé (ScyllaDB)")
	}

	// 4. MinIO
	if cfg.MinIO.Endpoint != "" {
		mc, err := connectMinIO(ctx, cfg.MinIO)
		if err != nil {
			conns.Close()
			return nil, err
		}
		conns.MinIO = mc
	} else {
		log.Println("⚠️ MINIO_ENDPOINT absent : images désactivées")
	}

	log.Println("✅ Toutes les bases de données sont connectées")
	return conns, nil
}

// Close ferme les connexions ouvertes
func (c *Connections) Close() {
	if c.Scylla != nil {
		c.Scylla.Close()
		log.Println("🔌 Session ScyllaDB fermée")
	}
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			log.Printf("⚠️ Fermeture Redis: %v", err)
		}
	}
}

// =============================================
// SCYLLA DB
// =============================================

func newCluster(cfg config.ScyllaConfig, keyspace string) *gocql.ClusterConfig {
	cluster := gocql.NewCluster(cfg.Hosts...)
	cluster.Keyspace = keyspace
	cluster.Consistency = gocql.Quorum
	cluster.Timeout = cfg.Timeout
	cluster.NumConns = cfg.NumConns

	cluster.MaxWaitSchemaAgreement = 30 * time.Second
	cluster.ReconnectInterval = 1 * time.Second
	if cfg.Username != "" {
		cluster.Authenticator = gocql.PasswordAuthenticator{
			Username: cfg.Username,
			Password: cfg.Password,
		}
	}

	cluster.PoolConfig.HostSelectionPolicy = gocql.TokenAwareHostPolicy(gocql.RoundRobinHostPolicy())
	return cluster
}

// connectScylla crée le keyspace si besoin, puis ouvre la session applicative
func connectScylla(cfg config.ScyllaConfig) (*gocql.Session, error) {
	bootstrap, err := newCluster(cfg, "").CreateSession()
	if err != nil {
		return nil, fmt.Errorf("erreur création session: %w", err)
	}
	err = bootstrap.Query(fmt.Sprintf(createKeyspaceCQL, cfg.Keyspace)).Exec()
	bootstrap.Close()
	if err != nil {
		return nil, fmt.Errorf("création keyspace %s: %w", cfg.Keyspace, err)
	}

	session, err := newCluster(cfg, cfg.Keyspace).CreateSession()
	if err != nil {
		return nil, fmt.Errorf("erreur création session pour %s: %w", cfg.Keyspace, err)
	}
	if err := EnsureSchema(session); err != nil {
		session.Close()
		return nil, err
	}

	log.Printf("✅ Session ScyllaDB ouverte pour le keyspace '%s'", cfg.Keyspace)
	return session, nil
}

// =============================================
// ELASTICSEARCH
// =============================================
func connectElastic(cfg config.ElasticConfig) (*elasticsearch.Client, error) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{cfg.URL},
		Username:  cfg.Username,
		Password:  cfg.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("erreur création client Elasticsearch: %w", err)
	}

	res, err := client.Info()
	if err != nil {
		return nil, fmt.Errorf("erreur connexion Elasticsearch: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, fmt.Errorf("erreur connexion Elasticsearch: %s", res.Status())
	}

	log.Println("✅ Connecté à Elasticsearch")
	return client, nil
}

// =============================================
// MINIO
// =============================================
func connectMinIO(ctx context.Context, cfg config.MinIOConfig) (*minio.Client, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("erreur connexion MinIO: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("erreur vérification bucket MinIO: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("erreur création bucket MinIO: %w", err)
		}
		log.Println("🪣 Bucket créé :", cfg.Bucket)
	} else {
		log.Println("🪣 Bucket MinIO déjà présent :", cfg.Bucket)
	}

	log.Println("✅ Connecté à MinIO :", cfg.Endpoint)
	return client, nil
}
