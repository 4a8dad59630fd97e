package db

import (
	"fmt"
	"log"
	"net/url"
	"strings"
)

const DefaultSQLitePath = "data/trips.db"

// OpenTripRepository picks a backend from databaseURL. Accepted forms:
//
//	sqlite:///relative/path.db
//	sqlite:////absolute/path.db
//	sqlite:///:memory:
//	postgres://, postgresql://, postgresql+psycopg://
//
// An empty URL opens the default SQLite file.
func OpenTripRepository(databaseURL string, pool PoolConfig) (TripRepository, error) {
	raw := strings.TrimSpace(databaseURL)
	if raw == "" {
		raw = "sqlite:///" + DefaultSQLitePath
	}

	scheme, _, ok := strings.Cut(raw, "://")
	if !ok {
		return nil, fmt.Errorf("invalid DATABASE_URL provided: %s", redactURL(raw))
	}

	switch backend := strings.ToLower(strings.SplitN(scheme, "+", 2)[0]); backend {
	case "sqlite":
		path, err := sqlitePathFromURL(raw)
		if err != nil {
			return nil, err
		}
		log.Printf("[INFO] Using SQLite trip store at %s", path)
		return NewSQLiteTripRepository(path)
	case "postgres", "postgresql":
		dsn, err := postgresDSN(raw, pool)
		if err != nil {
			return nil, err
		}
		log.Printf("[INFO] Using PostgreSQL trip store at %s", redactURL(dsn))
		return NewPostgresTripRepository(dsn, pool)
	default:
		return nil, fmt.Errorf("unsupported database backend %q", backend)
	}
}

// sqlitePathFromURL follows SQLAlchemy: three slashes keep the path
// relative, a fourth makes it absolute.
func sqlitePathFromURL(raw string) (string, error) {
	_, rest, _ := strings.Cut(raw, "://")
	if i := strings.Index(rest, "?"); i >= 0 {
		rest = rest[:i]
	}
	if rest == "" || rest == "/" {
		return ":memory:", nil
	}
	if !strings.HasPrefix(rest, "/") {
		return "", fmt.Errorf("invalid sqlite url %q: expected sqlite:///path", raw)
	}
	return strings.TrimPrefix(rest, "/"), nil
}

func postgresDSN(raw string, pool PoolConfig) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid DATABASE_URL provided: %w", err)
	}
	u.Scheme = "postgres"

	q := u.Query()
	if pool.SSLMode != "" {
		q.Set("sslmode", pool.SSLMode)
	}
	if pool.SSLRootCert != "" {
		q.Set("sslrootcert", pool.SSLRootCert)
	}
	u.RawQuery = q.Encode()

	return u.String(), nil
}

func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	if _, hasPassword := u.User.Password(); hasPassword {
		u.User = url.UserPassword(u.User.Username(), "xxxxx")
	}
	return u.String()
}
