package storage

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"friendskeeper/pkg/logx"
)

//go:embed migrations.sql
var migrationsFS embed.FS

type sqliteStore struct {
	db  *sql.DB
	log logx.Logger
}

// Open initializes the SQLite store, creating the database file and schema
// when absent.
func Open(cfg Config, log logx.Logger) (Store, error) {
	if strings.TrimSpace(cfg.Path) == "" {
		return nil, errors.New("sqlite path is required")
	}
	if log.IsZero() {
		log = logx.Nop()
	}
	if dir := filepath.Dir(cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, err
	}
	// SQLite prefers a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if cfg.BusyTimeout > 0 {
		_, _ = db.Exec(fmt.Sprintf("PRAGMA busy_timeout = %d", cfg.BusyTimeout.Milliseconds()))
	}
	_, _ = db.Exec("PRAGMA journal_mode = WAL")
	_, _ = db.Exec("PRAGMA synchronous = NORMAL")
	_, _ = db.Exec("PRAGMA foreign_keys = ON")

	st := &sqliteStore{db: db, log: log}
	if err := st.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return st, nil
}

func (s *sqliteStore) migrate(ctx context.Context) error {
	b, err := migrationsFS.ReadFile("migrations.sql")
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, string(b))
	return err
}

func (s *sqliteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// ---- friends ----

func (s *sqliteStore) CreateFriend(ctx context.Context, f NewFriend) (Friend, error) {
	if strings.TrimSpace(f.Nickname) == "" {
		return Friend{}, errors.New("nickname is required")
	}
	if f.MinDays < 1 || f.MinDays >= f.MaxDays {
		return Friend{}, ErrInvalidInterval
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO friends(nickname, name, last_name, relationship, min_days, max_days, active)
		 VALUES(?,?,?,?,?,?,1)`,
		f.Nickname, nullStr(f.Name), nullStr(f.LastName), nullStr(f.Relationship), f.MinDays, f.MaxDays,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return Friend{}, fmt.Errorf("friend %q: %w", f.Nickname, ErrNicknameTaken)
		}
		return Friend{}, fmt.Errorf("create friend: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Friend{}, fmt.Errorf("create friend: %w", err)
	}

	s.log.Debug("friend created", logx.Int64("friend_id", id), logx.String("nickname", f.Nickname))
	return Friend{
		ID:           id,
		Nickname:     f.Nickname,
		Name:         f.Name,
		LastName:     f.LastName,
		Relationship: f.Relationship,
		MinDays:      f.MinDays,
		MaxDays:      f.MaxDays,
		Active:       true,
	}, nil
}

const friendColumns = `id, nickname, COALESCE(name,''), COALESCE(last_name,''), COALESCE(relationship,''), min_days, max_days, active`

func (s *sqliteStore) Friend(ctx context.Context, id int64) (Friend, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+friendColumns+` FROM friends WHERE id = ?`, id)
	return scanFriend(row)
}

func (s *sqliteStore) FriendByNickname(ctx context.Context, nickname string) (Friend, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+friendColumns+` FROM friends WHERE nickname = ?`, nickname)
	return scanFriend(row)
}

func scanFriend(row *sql.Row) (Friend, error) {
	var f Friend
	err := row.Scan(&f.ID, &f.Nickname, &f.Name, &f.LastName, &f.Relationship, &f.MinDays, &f.MaxDays, &f.Active)
	if errors.Is(err, sql.ErrNoRows) {
		return Friend{}, ErrNotFound
	}
	if err != nil {
		return Friend{}, fmt.Errorf("get friend: %w", err)
	}
	return f, nil
}

func (s *sqliteStore) Friends(ctx context.Context, includeInactive bool) ([]Friend, error) {
	q := `SELECT ` + friendColumns + ` FROM friends WHERE active = 1 ORDER BY id`
	if includeInactive {
		q = `SELECT ` + friendColumns + ` FROM friends ORDER BY id`
	}
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list friends: %w", err)
	}
	defer rows.Close()

	var out []Friend
	for rows.Next() {
		var f Friend
		if err := rows.Scan(&f.ID, &f.Nickname, &f.Name, &f.LastName, &f.Relationship, &f.MinDays, &f.MaxDays, &f.Active); err != nil {
			return nil, fmt.Errorf("list friends: %w", err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func (s *sqliteStore) SetFriendActive(ctx context.Context, id int64, active bool) error {
	res, err := s.db.ExecContext(ctx, `UPDATE friends SET active = ? WHERE id = ?`, active, id)
	if err != nil {
		return fmt.Errorf("update friend: %w", err)
	}
	return mustAffect(res)
}

func (s *sqliteStore) DeleteFriend(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("delete friend: %w", err)
	}
	defer tx.Rollback()

	// The FK cascades, but delete explicitly so the events go even on
	// databases created before foreign_keys enforcement.
	if _, err := tx.ExecContext(ctx, `DELETE FROM notifications WHERE friend_id = ?`, id); err != nil {
		return fmt.Errorf("delete friend notifications: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM friends WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete friend: %w", err)
	}
	if err := mustAffect(res); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("delete friend: %w", err)
	}
	s.log.Debug("friend deleted", logx.Int64("friend_id", id))
	return nil
}

// ---- notification events ----

const eventColumns = `id, friend_id, date, already_notified`

func (s *sqliteStore) Notification(ctx context.Context, id int64) (NotificationEvent, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+eventColumns+` FROM notifications WHERE id = ?`, id)
	return scanEvent(row.Scan)
}

func scanEvent(scan func(dest ...any) error) (NotificationEvent, error) {
	var e NotificationEvent
	var day string
	err := scan(&e.ID, &e.FriendID, &day, &e.AlreadyNotified)
	if errors.Is(err, sql.ErrNoRows) {
		return NotificationEvent{}, ErrNotFound
	}
	if err != nil {
		return NotificationEvent{}, fmt.Errorf("get notification: %w", err)
	}
	e.Date, err = time.ParseInLocation(dbDateLayout, day, time.UTC)
	if err != nil {
		return NotificationEvent{}, fmt.Errorf("notification %d has malformed date %q: %w", e.ID, day, err)
	}
	return e, nil
}

func (s *sqliteStore) queryEvents(ctx context.Context, q string, args ...any) ([]NotificationEvent, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	var out []NotificationEvent
	for rows.Next() {
		e, err := scanEvent(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *sqliteStore) DueOn(ctx context.Context, day time.Time) ([]NotificationEvent, error) {
	return s.queryEvents(ctx,
		`SELECT `+eventColumns+` FROM notifications WHERE already_notified = 0 AND date = ? ORDER BY id`,
		DateOf(day).Format(dbDateLayout),
	)
}

func (s *sqliteStore) NotificationsByFriend(ctx context.Context, friendID int64) ([]NotificationEvent, error) {
	return s.queryEvents(ctx,
		`SELECT `+eventColumns+` FROM notifications WHERE friend_id = ? ORDER BY date`,
		friendID,
	)
}

func (s *sqliteStore) PendingForFriend(ctx context.Context, friendID int64) (NotificationEvent, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+eventColumns+` FROM notifications WHERE friend_id = ? AND already_notified = 0`,
		friendID,
	)
	return scanEvent(row.Scan)
}

func (s *sqliteStore) Upcoming(ctx context.Context, from time.Time) ([]NotificationEvent, error) {
	return s.queryEvents(ctx,
		`SELECT `+eventColumns+` FROM notifications WHERE already_notified = 0 AND date >= ? ORDER BY date, id`,
		DateOf(from).Format(dbDateLayout),
	)
}

func (s *sqliteStore) CreateNotification(ctx context.Context, friendID int64, day time.Time) (NotificationEvent, error) {
	date := DateOf(day)
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO notifications(friend_id, date, already_notified) VALUES(?,?,0)`,
		friendID, date.Format(dbDateLayout),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return NotificationEvent{}, fmt.Errorf("friend %d: %w", friendID, ErrPendingExists)
		}
		if isFKViolation(err) {
			return NotificationEvent{}, fmt.Errorf("friend %d: %w", friendID, ErrNotFound)
		}
		return NotificationEvent{}, fmt.Errorf("create notification: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return NotificationEvent{}, fmt.Errorf("create notification: %w", err)
	}

	s.log.Debug("notification created",
		logx.Int64("notification_id", id),
		logx.Int64("friend_id", friendID),
		logx.Time("date", date),
	)
	return NotificationEvent{ID: id, FriendID: friendID, Date: date}, nil
}

func (s *sqliteStore) MarkDelivered(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `UPDATE notifications SET already_notified = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("mark notification delivered: %w", err)
	}
	return mustAffect(res)
}

func (s *sqliteStore) UpdateDate(ctx context.Context, id int64, day time.Time) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE notifications SET date = ? WHERE id = ?`,
		DateOf(day).Format(dbDateLayout), id,
	)
	if err != nil {
		return fmt.Errorf("update notification date: %w", err)
	}
	return mustAffect(res)
}

func (s *sqliteStore) UpdateDateByFriend(ctx context.Context, friendID int64, day time.Time) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE notifications SET date = ? WHERE friend_id = ? AND already_notified = 0`,
		DateOf(day).Format(dbDateLayout), friendID,
	)
	if err != nil {
		return fmt.Errorf("update notification date: %w", err)
	}
	return mustAffect(res)
}

func (s *sqliteStore) DeleteNotification(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM notifications WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete notification: %w", err)
	}
	return mustAffect(res)
}

func (s *sqliteStore) DeleteForFriend(ctx context.Context, friendID int64, all bool) error {
	q := `DELETE FROM notifications WHERE friend_id = ? AND already_notified = 0`
	if all {
		q = `DELETE FROM notifications WHERE friend_id = ?`
	}
	if _, err := s.db.ExecContext(ctx, q, friendID); err != nil {
		return fmt.Errorf("delete friend notifications: %w", err)
	}
	return nil
}

// ---- helpers ----

func mustAffect(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func nullStr(v string) any {
	if strings.TrimSpace(v) == "" {
		return nil
	}
	return v
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func isFKViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}
