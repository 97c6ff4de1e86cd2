package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ayusharma-ctrl/GIYC/internal/game"
	"github.com/ayusharma-ctrl/GIYC/internal/globetrotter"
)

// SQLiteStore implements Store on a single SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

const timeLayout = time.RFC3339Nano

func formatTime(t time.Time) string { return t.UTC().Format(timeLayout) }

func parseTime(s string) time.Time {
	t, _ := time.Parse(timeLayout, s)
	return t
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// --- Catalog ---

func (s *SQLiteStore) RandomDestination(ctx context.Context) (globetrotter.Destination, error) {
	var d globetrotter.Destination
	var clues, facts, trivia string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, city, country, clues, fun_facts, trivia
		FROM destinations
		ORDER BY RANDOM()
		LIMIT 1
	`).Scan(&d.ID, &d.City, &d.Country, &clues, &facts, &trivia)
	if errors.Is(err, sql.ErrNoRows) {
		return d, game.ErrInsufficientData
	}
	if err != nil {
		return d, err
	}
	json.Unmarshal([]byte(clues), &d.Clues)
	json.Unmarshal([]byte(facts), &d.FunFacts)
	json.Unmarshal([]byte(trivia), &d.Trivia)
	return d, nil
}

func (s *SQLiteStore) RandomCitiesExcluding(ctx context.Context, city string, n int) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT city FROM destinations
		WHERE city != ?
		ORDER BY RANDOM()
		LIMIT ?
	`, city, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cities []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		cities = append(cities, c)
	}
	return cities, rows.Err()
}

func (s *SQLiteStore) DestinationByID(ctx context.Context, id int64) (globetrotter.Destination, error) {
	var d globetrotter.Destination
	var clues, facts, trivia string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, city, country, clues, fun_facts, trivia
		FROM destinations WHERE id = ?
	`, id).Scan(&d.ID, &d.City, &d.Country, &clues, &facts, &trivia)
	if errors.Is(err, sql.ErrNoRows) {
		return d, ErrNotFound
	}
	if err != nil {
		return d, err
	}
	json.Unmarshal([]byte(clues), &d.Clues)
	json.Unmarshal([]byte(facts), &d.FunFacts)
	json.Unmarshal([]byte(trivia), &d.Trivia)
	return d, nil
}

func (s *SQLiteStore) ListDestinations(ctx context.Context) ([]globetrotter.Destination, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, city, country, clues, fun_facts, trivia
		FROM destinations ORDER BY city
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var destinations []globetrotter.Destination
	for rows.Next() {
		var d globetrotter.Destination
		var clues, facts, trivia string
		if err := rows.Scan(&d.ID, &d.City, &d.Country, &clues, &facts, &trivia); err != nil {
			return nil, err
		}
		json.Unmarshal([]byte(clues), &d.Clues)
		json.Unmarshal([]byte(facts), &d.FunFacts)
		json.Unmarshal([]byte(trivia), &d.Trivia)
		destinations = append(destinations, d)
	}
	return destinations, rows.Err()
}

func (s *SQLiteStore) CountDestinations(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM destinations`).Scan(&count)
	return count, err
}

func (s *SQLiteStore) InsertDestination(ctx context.Context, d globetrotter.Destination) error {
	clues, _ := json.Marshal(d.Clues)
	facts, _ := json.Marshal(d.FunFacts)
	trivia, _ := json.Marshal(d.Trivia)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO destinations (city, country, clues, fun_facts, trivia)
		VALUES (?, ?, ?, ?, ?)
	`, d.City, d.Country, string(clues), string(facts), string(trivia))
	return err
}

// --- Progression ledger ---

func (s *SQLiteStore) ProgressionState(ctx context.Context, userID string) (globetrotter.ProgressionState, error) {
	var st globetrotter.ProgressionState
	var lastPlayed sql.NullString
	err := s.db.QueryRowContext(ctx, `
		SELECT total_played, total_correct, total_wrong, current_streak, longest_streak, last_played_at
		FROM users WHERE id = ?
	`, userID).Scan(&st.TotalPlayed, &st.TotalCorrect, &st.TotalWrong, &st.CurrentStreak, &st.LongestStreak, &lastPlayed)
	if errors.Is(err, sql.ErrNoRows) {
		return st, game.ErrUserNotFound
	}
	if err != nil {
		return st, err
	}
	if lastPlayed.Valid {
		t := parseTime(lastPlayed.String)
		st.LastPlayedAt = &t
	}
	return st, nil
}

func (s *SQLiteStore) UpdateProgression(ctx context.Context, userID string, st globetrotter.ProgressionState) error {
	var lastPlayed any
	if st.LastPlayedAt != nil {
		lastPlayed = formatTime(*st.LastPlayedAt)
	}
	result, err := s.db.ExecContext(ctx, `
		UPDATE users
		SET total_played = ?, total_correct = ?, total_wrong = ?,
			current_streak = ?, longest_streak = ?, last_played_at = ?
		WHERE id = ?
	`, st.TotalPlayed, st.TotalCorrect, st.TotalWrong, st.CurrentStreak, st.LongestStreak, lastPlayed, userID)
	if err != nil {
		return err
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return game.ErrUserNotFound
	}
	return nil
}

func (s *SQLiteStore) RecordGame(ctx context.Context, userID string, destinationID int64, isCorrect bool) error {
	isCorrectInt := 0
	if isCorrect {
		isCorrectInt = 1
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO games (user_id, destination_id, is_correct)
		VALUES (?, ?, ?)
	`, userID, destinationID, isCorrectInt)
	return err
}

// --- Achievements ---

func (s *SQLiteStore) UnlockedAchievements(ctx context.Context, userID string) (map[int]bool, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT achievement_id FROM user_achievements WHERE user_id = ?
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	unlocked := make(map[int]bool)
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		unlocked[id] = true
	}
	return unlocked, rows.Err()
}

// InsertUnlock relies on the (user_id, achievement_id) primary key:
// a concurrent duplicate insert becomes a no-op, not an error.
func (s *SQLiteStore) InsertUnlock(ctx context.Context, userID string, achievementID int, unlockedAt time.Time) (bool, error) {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO user_achievements (user_id, achievement_id, unlocked_at)
		VALUES (?, ?, ?)
		ON CONFLICT (user_id, achievement_id) DO NOTHING
	`, userID, achievementID, formatTime(unlockedAt))
	if err != nil {
		return false, err
	}
	n, _ := result.RowsAffected()
	return n > 0, nil
}

func (s *SQLiteStore) ListAchievements(ctx context.Context) ([]globetrotter.Achievement, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, description, icon FROM achievements ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var achievements []globetrotter.Achievement
	for rows.Next() {
		var a globetrotter.Achievement
		if err := rows.Scan(&a.ID, &a.Title, &a.Description, &a.Icon); err != nil {
			return nil, err
		}
		achievements = append(achievements, a)
	}
	return achievements, rows.Err()
}

func (s *SQLiteStore) ListUnlocks(ctx context.Context, userID string) ([]UnlockInfo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT achievement_id, unlocked_at
		FROM user_achievements
		WHERE user_id = ?
		ORDER BY achievement_id
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var unlocks []UnlockInfo
	for rows.Next() {
		var u UnlockInfo
		if err := rows.Scan(&u.AchievementID, &u.UnlockedAt); err != nil {
			return nil, err
		}
		unlocks = append(unlocks, u)
	}
	return unlocks, rows.Err()
}

func (s *SQLiteStore) InsertAchievement(ctx context.Context, a globetrotter.Achievement) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO achievements (id, title, description, icon)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (id) DO NOTHING
	`, a.ID, a.Title, a.Description, a.Icon)
	return err
}

// --- Users & sessions ---

func (s *SQLiteStore) CreateUser(ctx context.Context, u globetrotter.User) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, username, avatar, password_hash)
		VALUES (?, ?, ?, ?)
	`, u.ID, u.Username, u.Avatar, u.PasswordHash)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

func (s *SQLiteStore) UserByUsername(ctx context.Context, username string) (globetrotter.User, error) {
	var u globetrotter.User
	err := s.db.QueryRowContext(ctx, `
		SELECT id, username, avatar, password_hash FROM users WHERE username = ?
	`, username).Scan(&u.ID, &u.Username, &u.Avatar, &u.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return u, ErrNotFound
	}
	return u, err
}

func (s *SQLiteStore) UsernameTaken(ctx context.Context, username string) (bool, error) {
	var exists int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM users WHERE username = ?`, username).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

func (s *SQLiteStore) CreateSession(ctx context.Context, userID string) (string, error) {
	sessionID := uuid.NewString()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, user_id) VALUES (?, ?)
	`, sessionID, userID)
	return sessionID, err
}

func (s *SQLiteStore) DeleteSession(ctx context.Context, sessionID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, sessionID)
	return err
}

func (s *SQLiteStore) UserFromSession(ctx context.Context, sessionID string) (userSession, error) {
	var sess userSession
	err := s.db.QueryRowContext(ctx, `
		SELECT u.id, u.username
		FROM sessions s
		JOIN users u ON u.id = s.user_id
		WHERE s.id = ?
	`, sessionID).Scan(&sess.UserID, &sess.Username)
	if errors.Is(err, sql.ErrNoRows) {
		return sess, errNoSession
	}
	return sess, err
}

// --- Profiles ---

func (s *SQLiteStore) UserProfile(ctx context.Context, userID string) (globetrotter.User, globetrotter.ProgressionState, error) {
	var u globetrotter.User
	var st globetrotter.ProgressionState
	var lastPlayed, createdAt sql.NullString
	err := s.db.QueryRowContext(ctx, `
		SELECT id, username, avatar, created_at,
			total_played, total_correct, total_wrong,
			current_streak, longest_streak, last_played_at
		FROM users WHERE id = ?
	`, userID).Scan(&u.ID, &u.Username, &u.Avatar, &createdAt,
		&st.TotalPlayed, &st.TotalCorrect, &st.TotalWrong,
		&st.CurrentStreak, &st.LongestStreak, &lastPlayed)
	if errors.Is(err, sql.ErrNoRows) {
		return u, st, game.ErrUserNotFound
	}
	if err != nil {
		return u, st, err
	}
	if createdAt.Valid {
		u.CreatedAt = parseTime(createdAt.String)
	}
	if lastPlayed.Valid {
		t := parseTime(lastPlayed.String)
		st.LastPlayedAt = &t
	}
	return u, st, nil
}

func (s *SQLiteStore) PublicProfile(ctx context.Context, username string) (PublicProfileResponse, error) {
	var p PublicProfileResponse
	err := s.db.QueryRowContext(ctx, `
		SELECT id, username, avatar, total_played, total_correct
		FROM users WHERE username = ?
	`, username).Scan(&p.ID, &p.Username, &p.Avatar, &p.TotalPlayed, &p.TotalCorrect)
	if errors.Is(err, sql.ErrNoRows) {
		return p, ErrNotFound
	}
	return p, err
}

// --- Invites ---

func (s *SQLiteStore) CountSentInvites(ctx context.Context, userID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM invites WHERE invited_by_id = ?
	`, userID).Scan(&count)
	return count, err
}

func (s *SQLiteStore) CreateInvite(ctx context.Context, invitedByID, invitee string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO invites (invited_by_id, invitee) VALUES (?, ?)
	`, invitedByID, invitee)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

func (s *SQLiteStore) AcceptInvitesForUsername(ctx context.Context, invitee string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		UPDATE invites SET is_accepted = 1
		WHERE invitee = ? AND is_accepted = 0
		RETURNING invited_by_id
	`, invitee)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var inviters []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		inviters = append(inviters, id)
	}
	return inviters, rows.Err()
}

func (s *SQLiteStore) ListInvites(ctx context.Context, userID string) ([]globetrotter.Invite, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, invited_by_id, invitee, is_accepted, created_at
		FROM invites
		WHERE invited_by_id = ?
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invites []globetrotter.Invite
	for rows.Next() {
		var inv globetrotter.Invite
		var createdAt string
		if err := rows.Scan(&inv.ID, &inv.InvitedByID, &inv.Invitee, &inv.IsAccepted, &createdAt); err != nil {
			return nil, err
		}
		inv.CreatedAt = parseTime(createdAt)
		invites = append(invites, inv)
	}
	return invites, rows.Err()
}

// --- Notifications ---

func (s *SQLiteStore) InsertNotification(ctx context.Context, n globetrotter.Notification) error {
	isReadInt := 0
	if n.IsRead {
		isReadInt = 1
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO notifications (id, user_id, message, icon, is_read, created_at, expires_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, n.ID, n.UserID, n.Message, n.Icon, isReadInt, formatTime(n.CreatedAt), formatTime(n.ExpiresAt))
	return err
}

func (s *SQLiteStore) ListNotifications(ctx context.Context, userID string) ([]globetrotter.Notification, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, message, icon, is_read, created_at, expires_at
		FROM notifications
		WHERE user_id = ?
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []globetrotter.Notification
	for rows.Next() {
		var n globetrotter.Notification
		var createdAt, expiresAt string
		if err := rows.Scan(&n.ID, &n.UserID, &n.Message, &n.Icon, &n.IsRead, &createdAt, &expiresAt); err != nil {
			return nil, err
		}
		n.CreatedAt = parseTime(createdAt)
		n.ExpiresAt = parseTime(expiresAt)
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

func (s *SQLiteStore) MarkNotificationRead(ctx context.Context, userID, notificationID string) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE notifications SET is_read = 1 WHERE id = ? AND user_id = ?
	`, notificationID, userID)
	if err != nil {
		return err
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) DeleteNotification(ctx context.Context, userID, notificationID string) error {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM notifications WHERE id = ? AND user_id = ?
	`, notificationID, userID)
	if err != nil {
		return err
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) DeleteAllNotifications(ctx context.Context, userID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM notifications WHERE user_id = ?`, userID)
	return err
}

func (s *SQLiteStore) DeleteExpiredNotifications(ctx context.Context, now time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM notifications WHERE expires_at <= ?
	`, formatTime(now))
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
