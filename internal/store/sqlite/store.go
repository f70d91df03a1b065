package sqlite

import (
	"database/sql"
	"fmt"
	"sync"

	_ "github.com/mattn/go-sqlite3"

	"github.com/exfador/starvell-monitor/internal/models"
)

type Store struct {
	db *sql.DB
	mu sync.Mutex
}

func New(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %v", err)
	}
	// sqlite is a single-writer store.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %v", err)
	}

	if err := initDatabase(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize database: %v", err)
	}

	return &Store{
		db: db,
	}, nil
}

func initDatabase(db *sql.DB) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS users (
			chat_id INTEGER PRIMARY KEY,
			authorized INTEGER DEFAULT 0,
			notify_auth INTEGER DEFAULT 1,
			notify_chat INTEGER DEFAULT 1,
			notify_orders INTEGER DEFAULT 1,
			notify_bump INTEGER DEFAULT 1
		)`,
		`CREATE TABLE IF NOT EXISTS chat_cursors (
			chat_id TEXT PRIMARY KEY,
			last_message_id TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS orders_notified (
			order_id TEXT PRIMARY KEY,
			created_at INTEGER DEFAULT (strftime('%s','now'))
		)`,
		`CREATE TABLE IF NOT EXISTS orders_status (
			order_id TEXT PRIMARY KEY,
			last_status TEXT NOT NULL,
			updated_at INTEGER DEFAULT (strftime('%s','now'))
		)`,
		`CREATE TABLE IF NOT EXISTS digest_sent (
			key TEXT PRIMARY KEY,
			created_at INTEGER DEFAULT (strftime('%s','now'))
		)`,
	}

	for _, query := range queries {
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("failed to execute query %q: %v", query, err)
		}
	}

	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) GetChatCursor(chatID string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var messageID string
	err := s.db.QueryRow("SELECT last_message_id FROM chat_cursors WHERE chat_id = ?", chatID).Scan(&messageID)
	if err == sql.ErrNoRows {
		return "", false, nil
	} else if err != nil {
		return "", false, fmt.Errorf("failed to query chat cursor: %v", err)
	}
	return messageID, true, nil
}

func (s *Store) SetChatCursor(chatID, messageID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO chat_cursors (chat_id, last_message_id)
		VALUES (?, ?)
		ON CONFLICT(chat_id) DO UPDATE SET last_message_id = excluded.last_message_id
	`, chatID, messageID)
	if err != nil {
		return fmt.Errorf("failed to set chat cursor: %v", err)
	}
	return nil
}

func (s *Store) IsOrderNotified(orderID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var one int
	err := s.db.QueryRow("SELECT 1 FROM orders_notified WHERE order_id = ?", orderID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	} else if err != nil {
		return false, fmt.Errorf("failed to query notified order: %v", err)
	}
	return true, nil
}

func (s *Store) MarkOrderNotified(orderID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO orders_notified (order_id) VALUES (?)
		ON CONFLICT(order_id) DO NOTHING
	`, orderID)
	if err != nil {
		return fmt.Errorf("failed to mark order notified: %v", err)
	}
	return nil
}

func (s *Store) GetOrderStatus(orderID string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var status string
	err := s.db.QueryRow("SELECT last_status FROM orders_status WHERE order_id = ?", orderID).Scan(&status)
	if err == sql.ErrNoRows {
		return "", false, nil
	} else if err != nil {
		return "", false, fmt.Errorf("failed to query order status: %v", err)
	}
	return status, true, nil
}

func (s *Store) SetOrderStatus(orderID, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO orders_status (order_id, last_status, updated_at)
		VALUES (?, ?, strftime('%s','now'))
		ON CONFLICT(order_id) DO UPDATE SET last_status = excluded.last_status, updated_at = excluded.updated_at
	`, orderID, status)
	if err != nil {
		return fmt.Errorf("failed to set order status: %v", err)
	}
	return nil
}

func (s *Store) IsDigestSent(key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var one int
	err := s.db.QueryRow("SELECT 1 FROM digest_sent WHERE key = ?", key).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	} else if err != nil {
		return false, fmt.Errorf("failed to query digest key: %v", err)
	}
	return true, nil
}

func (s *Store) MarkDigestSent(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO digest_sent (key) VALUES (?)
		ON CONFLICT(key) DO NOTHING
	`, key)
	if err != nil {
		return fmt.Errorf("failed to mark digest sent: %v", err)
	}
	return nil
}

func (s *Store) EnsureUser(chatID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec("INSERT INTO users (chat_id) VALUES (?) ON CONFLICT DO NOTHING", chatID)
	if err != nil {
		return fmt.Errorf("failed to insert user: %v", err)
	}
	return nil
}

func (s *Store) GetUser(chatID int64) (*models.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user := &models.User{ChatID: chatID}
	err := s.db.QueryRow(`
		SELECT authorized, notify_auth, notify_chat, notify_orders, notify_bump
		FROM users WHERE chat_id = ?
	`, chatID).Scan(&user.Authorized, &user.NotifyAuth, &user.NotifyChat, &user.NotifyOrders, &user.NotifyBump)
	if err != nil {
		return nil, false
	}
	return user, true
}

func (s *Store) SetAuthorized(chatID int64, authorized bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec("UPDATE users SET authorized = ? WHERE chat_id = ?", authorized, chatID)
	if err != nil {
		return fmt.Errorf("failed to set authorized: %v", err)
	}
	return nil
}

func (s *Store) ToggleNotify(chatID int64, kind models.Kind) (bool, error) {
	column, err := notifyColumn(kind)
	if err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	query := fmt.Sprintf("UPDATE users SET %s = 1 - %s WHERE chat_id = ?", column, column)
	result, err := s.db.Exec(query, chatID)
	if err != nil {
		return false, fmt.Errorf("failed to toggle %s: %v", column, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %v", err)
	}
	if rows == 0 {
		return false, fmt.Errorf("user not found")
	}

	var value bool
	query = fmt.Sprintf("SELECT %s FROM users WHERE chat_id = ?", column)
	if err := s.db.QueryRow(query, chatID).Scan(&value); err != nil {
		return false, fmt.Errorf("failed to read %s: %v", column, err)
	}
	return value, nil
}

func (s *Store) Recipients(kind models.Kind) ([]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := "SELECT chat_id FROM users WHERE authorized = 1"
	if kind != models.KindDigest {
		column, err := notifyColumn(kind)
		if err != nil {
			return nil, err
		}
		query += fmt.Sprintf(" AND %s = 1", column)
	}

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query recipients: %v", err)
	}
	defer rows.Close()

	var recipients []int64
	for rows.Next() {
		var chatID int64
		if err := rows.Scan(&chatID); err != nil {
			return nil, fmt.Errorf("failed to scan chat_id: %v", err)
		}
		recipients = append(recipients, chatID)
	}
	return recipients, rows.Err()
}

func notifyColumn(kind models.Kind) (string, error) {
	switch kind {
	case models.KindAuth:
		return "notify_auth", nil
	case models.KindChat:
		return "notify_chat", nil
	case models.KindOrders:
		return "notify_orders", nil
	case models.KindBump:
		return "notify_bump", nil
	default:
		return "", fmt.Errorf("unknown notification kind %q", kind)
	}
}
