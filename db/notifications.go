package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/cyverse-de/notification-dispatcher/model"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	sq "github.com/Masterminds/squirrel"
)

// notificationColumns lists the columns read back for every notification, in scan order.
var notificationColumns = []string{"id::text", "user_id", "message", "type", "read", "created_at"}

// returning reads the affected row back after an insert or update.
var returning = "RETURNING " + strings.Join(notificationColumns, ", ")

// psql builds statements with PostgreSQL placeholders.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Store is a notification store backed by a PostgreSQL database.
type Store struct {
	db *sql.DB
}

// NewStore returns a new notification store that uses the given database connection.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Ping verifies that the database can still be reached.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanNotification(row rowScanner) (*model.Notification, error) {
	var notification model.Notification
	var notificationType string
	err := row.Scan(
		&notification.ID,
		&notification.UserID,
		&notification.Message,
		&notificationType,
		&notification.Read,
		&notification.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	notification.Type = model.Channel(notificationType)
	return &notification, nil
}

// validID returns true if the notification ID could possibly be stored in the database. Anything that isn't a UUID
// would be rejected by the database with a type error rather than simply not matching.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// Create saves a new notification. The database assigns the ID and creation timestamp.
func (s *Store) Create(ctx context.Context, userID, message string, channel model.Channel) (*model.Notification, error) {
	wrapMsg := "unable to save notification"

	// Build the statement to insert the notification.
	statement, args, err := psql.
		Insert("notifications").
		Columns("user_id", "message", "type").
		Values(userID, message, string(channel)).
		Suffix(returning).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, wrapMsg)
	}

	// Execute the insert statement, scanning the stored row back into the notification.
	notification, err := scanNotification(s.db.QueryRowContext(ctx, statement, args...))
	if err != nil {
		return nil, errors.Wrap(err, wrapMsg)
	}

	return notification, nil
}

// FindByID looks up a single notification.
func (s *Store) FindByID(ctx context.Context, id string) (*model.Notification, error) {
	wrapMsg := fmt.Sprintf("unable to look up notification `%s`", id)

	if !validID(id) {
		return nil, errors.Wrap(model.ErrNotFound, wrapMsg)
	}

	// Build the query.
	query, args, err := psql.
		Select(notificationColumns...).
		From("notifications").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, wrapMsg)
	}

	// Query the database.
	notification, err := scanNotification(s.db.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, errors.Wrap(model.ErrNotFound, wrapMsg)
	}
	if err != nil {
		return nil, errors.Wrap(err, wrapMsg)
	}

	return notification, nil
}

// FindByUser lists all of the notifications for a user, most recent first.
func (s *Store) FindByUser(ctx context.Context, userID string) ([]model.Notification, error) {
	wrapMsg := fmt.Sprintf("unable to list notifications for `%s`", userID)

	// Build the query.
	query, args, err := psql.
		Select(notificationColumns...).
		From("notifications").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("created_at DESC", "id DESC").
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, wrapMsg)
	}

	// Query the database.
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, wrapMsg)
	}
	defer rows.Close()

	notifications := make([]model.Notification, 0)
	for rows.Next() {
		notification, err := scanNotification(rows)
		if err != nil {
			return nil, errors.Wrap(err, wrapMsg)
		}
		notifications = append(notifications, *notification)
	}
	if err = rows.Err(); err != nil {
		return nil, errors.Wrap(err, wrapMsg)
	}

	return notifications, nil
}

// Update applies a mutation to a single notification and returns the updated notification.
func (s *Store) Update(ctx context.Context, id string, mutation model.Mutation) (*model.Notification, error) {
	wrapMsg := fmt.Sprintf("unable to update notification `%s`", id)

	if mutation.IsEmpty() {
		return s.FindByID(ctx, id)
	}
	if !validID(id) {
		return nil, errors.Wrap(model.ErrNotFound, wrapMsg)
	}

	// Build the update statement.
	builder := psql.Update("notifications")
	if mutation.Message != nil {
		builder = builder.Set("message", *mutation.Message)
	}
	if mutation.MarkRead {
		builder = builder.Set("read", true)
	}
	statement, args, err := builder.
		Where(sq.Eq{"id": id}).
		Suffix(returning).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, wrapMsg)
	}

	// Execute the statement.
	notification, err := scanNotification(s.db.QueryRowContext(ctx, statement, args...))
	if err == sql.ErrNoRows {
		return nil, errors.Wrap(model.ErrNotFound, wrapMsg)
	}
	if err != nil {
		return nil, errors.Wrap(err, wrapMsg)
	}

	return notification, nil
}

// MarkAllRead marks every unread notification for a user as read in a single statement, returning the number of
// notifications that were changed.
func (s *Store) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	wrapMsg := fmt.Sprintf("unable to mark notifications for `%s` as read", userID)

	// Build the update statement.
	statement, args, err := psql.
		Update("notifications").
		Set("read", true).
		Where(sq.Eq{"user_id": userID}).
		Where(sq.Eq{"read": false}).
		ToSql()
	if err != nil {
		return 0, errors.Wrap(err, wrapMsg)
	}

	// Execute the statement and report the number of rows affected.
	result, err := s.db.ExecContext(ctx, statement, args...)
	if err != nil {
		return 0, errors.Wrap(err, wrapMsg)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, errors.Wrap(err, wrapMsg)
	}

	return rowsAffected, nil
}

// Delete permanently removes a notification.
func (s *Store) Delete(ctx context.Context, id string) error {
	wrapMsg := fmt.Sprintf("unable to delete notification `%s`", id)

	if !validID(id) {
		return errors.Wrap(model.ErrNotFound, wrapMsg)
	}

	// Build the delete statement.
	statement, args, err := psql.
		Delete("notifications").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return errors.Wrap(err, wrapMsg)
	}

	// Execute the statement and verify that the notification existed.
	result, err := s.db.ExecContext(ctx, statement, args...)
	if err != nil {
		return errors.Wrap(err, wrapMsg)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errors.Wrap(err, wrapMsg)
	}
	if rowsAffected == 0 {
		return errors.Wrap(model.ErrNotFound, wrapMsg)
	}

	return nil
}
