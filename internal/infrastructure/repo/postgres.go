package repo

import (
	"database/sql"
	"encoding/json"
	"time"

	_ "github.com/lib/pq"

	"rendezvous/internal/domain"
)

// PostgresSessionStore keeps one ordering session per kiosk so a terminal
// that restarts mid-order comes back to the same session.
type PostgresSessionStore struct {
	db      *sql.DB
	kioskID string
}

func NewPostgresSessionStore(dsn, kioskID string) (*PostgresSessionStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	r := &PostgresSessionStore{db: db, kioskID: kioskID}
	if err := r.init(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return r, nil
}

func (r *PostgresSessionStore) init() error {
	_, err := r.db.Exec(`CREATE TABLE IF NOT EXISTS order_sessions (
		kiosk_id TEXT PRIMARY KEY,
		data TEXT NOT NULL,
		updated_at TIMESTAMPTZ
	);`)
	return err
}

func (r *PostgresSessionStore) Put(s *domain.OrderSession) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(`INSERT INTO order_sessions (kiosk_id,data,updated_at)
		VALUES ($1,$2,$3)
		ON CONFLICT (kiosk_id) DO UPDATE SET data=$2,updated_at=$3`,
		r.kioskID, string(data), time.Now().UTC())
	return err
}

func (r *PostgresSessionStore) Get() (*domain.OrderSession, bool) {
	var data string
	err := r.db.QueryRow(`SELECT data FROM order_sessions WHERE kiosk_id=$1`, r.kioskID).Scan(&data)
	if err != nil {
		return nil, false
	}
	var s domain.OrderSession
	if err := json.Unmarshal([]byte(data), &s); err != nil {
		return nil, false
	}
	return &s, true
}

func (r *PostgresSessionStore) Clear() error {
	_, err := r.db.Exec(`DELETE FROM order_sessions WHERE kiosk_id=$1`, r.kioskID)
	return err
}

func (r *PostgresSessionStore) Close() error {
	return r.db.Close()
}
