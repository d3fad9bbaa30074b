package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/moviekeep/moviekeep-server/internal/domain"
	apperrors "github.com/moviekeep/moviekeep-server/internal/errors"
	"github.com/moviekeep/moviekeep-server/internal/id"
	"github.com/moviekeep/moviekeep-server/internal/store"
)

// movieColumns is the ordered list of columns selected in movie queries.
// Must match the scan order in scanMovie.
const movieColumns = `id, owner_id, name, year, director, rating, poster,
	external_id, external_link, user_title, user_rating, user_notes, added_at`

// scanMovie scans a sql.Row (or sql.Rows via its Scan method) into a domain.Movie.
func scanMovie(scanner interface{ Scan(dest ...any) error }) (*domain.Movie, error) {
	var m domain.Movie

	var (
		year         sql.NullInt64
		director     sql.NullString
		rating       sql.NullFloat64
		poster       sql.NullString
		externalID   sql.NullString
		externalLink sql.NullString
		userTitle    sql.NullString
		userRating   sql.NullFloat64
		userNotes    sql.NullString
		addedAt      string
	)

	err := scanner.Scan(
		&m.ID,
		&m.OwnerID,
		&m.Name,
		&year,
		&director,
		&rating,
		&poster,
		&externalID,
		&externalLink,
		&userTitle,
		&userRating,
		&userNotes,
		&addedAt,
	)
	if err != nil {
		return nil, err
	}

	if year.Valid {
		y := int(year.Int64)
		m.Year = &y
	}
	m.Director = director.String
	if rating.Valid {
		r := rating.Float64
		m.Rating = &r
	}
	m.Poster = poster.String
	m.ExternalID = externalID.String
	m.ExternalLink = externalLink.String
	m.UserTitle = userTitle.String
	if userRating.Valid {
		r := userRating.Float64
		m.UserRating = &r
	}
	m.UserNotes = userNotes.String

	m.AddedAt, err = parseTime(addedAt)
	if err != nil {
		return nil, err
	}

	return &m, nil
}

// ListMovies returns all movies owned by the given user, oldest first.
// Returns errors.ErrNotFound if the owner does not exist; an owner with no
// movies yields an empty slice.
func (s *Store) ListMovies(ctx context.Context, ownerID string) ([]*domain.Movie, error) {
	exists, err := s.userExists(ctx, s.db, ownerID)
	if err != nil {
		return nil, apperrors.Storage("check owner", err)
	}
	if !exists {
		return nil, apperrors.NotFoundf("user %s not found", ownerID)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+movieColumns+` FROM movies WHERE owner_id = ? ORDER BY added_at, id`, ownerID)
	if err != nil {
		return nil, apperrors.Storage("list movies", err)
	}
	defer rows.Close()

	movies := make([]*domain.Movie, 0)
	for rows.Next() {
		m, err := scanMovie(rows)
		if err != nil {
			return nil, apperrors.Storage("scan movie", err)
		}
		movies = append(movies, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Storage("list movies", err)
	}
	return movies, nil
}

// GetMovie retrieves a movie by ID, scoped to its owner.
// Returns errors.ErrNotFound if the movie does not exist or belongs to a
// different owner.
func (s *Store) GetMovie(ctx context.Context, ownerID, movieID string) (*domain.Movie, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+movieColumns+` FROM movies WHERE id = ? AND owner_id = ?`, movieID, ownerID)

	m, err := scanMovie(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFoundf("movie %s not found for user %s", movieID, ownerID)
	}
	if err != nil {
		return nil, apperrors.Storage("get movie", err)
	}
	return m, nil
}

// AddMovie inserts a movie for the given owner with a freshly assigned ID.
// Returns errors.ErrNotFound if the owner is missing and errors.ErrValidation
// if the movie carries no usable title. The owner check and insert run in one
// transaction so a concurrently deleted owner can never leave an orphan row.
func (s *Store) AddMovie(ctx context.Context, ownerID string, movie *domain.Movie) (*domain.Movie, error) {
	if movie == nil || !movie.HasTitle() {
		return nil, apperrors.ValidationWithDetails("movie needs a non-empty name", map[string]string{"name": "required"})
	}

	movieID, err := id.Generate(id.PrefixMovie)
	if err != nil {
		return nil, apperrors.Storage("assign movie id", err)
	}

	stored := *movie
	stored.ID = movieID
	stored.OwnerID = ownerID
	stored.AddedAt = time.Now().UTC()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, apperrors.Storage("begin add movie", err)
	}
	defer tx.Rollback()

	exists, err := s.userExists(ctx, tx, ownerID)
	if err != nil {
		return nil, apperrors.Storage("check owner", err)
	}
	if !exists {
		return nil, apperrors.NotFoundf("user %s not found", ownerID)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO movies (
			id, owner_id, name, year, director, rating, poster,
			external_id, external_link, user_title, user_rating, user_notes, added_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		stored.ID,
		stored.OwnerID,
		stored.Name,
		nullInt(stored.Year),
		nullString(stored.Director),
		nullFloat(stored.Rating),
		nullString(stored.Poster),
		nullString(stored.ExternalID),
		nullString(stored.ExternalLink),
		nullString(stored.UserTitle),
		nullFloat(stored.UserRating),
		nullString(stored.UserNotes),
		formatTime(stored.AddedAt),
	)
	if err != nil {
		return nil, apperrors.Storage("insert movie", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, apperrors.Storage("commit add movie", err)
	}

	s.logger.Debug("movie added", "movie_id", stored.ID, "owner_id", ownerID)
	return &stored, nil
}

// UpdateMovie applies a partial update to a movie (PATCH semantics): only
// non-nil update fields change, everything else keeps its prior value. The
// read and write happen in one transaction. Returns errors.ErrNotFound if the
// movie does not exist under the given owner.
func (s *Store) UpdateMovie(ctx context.Context, ownerID, movieID string, update store.MovieUpdate) (*domain.Movie, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, apperrors.Storage("begin update movie", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx,
		`SELECT `+movieColumns+` FROM movies WHERE id = ? AND owner_id = ?`, movieID, ownerID)
	m, err := scanMovie(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFoundf("movie %s not found for user %s", movieID, ownerID)
	}
	if err != nil {
		return nil, apperrors.Storage("get movie for update", err)
	}

	if update.UserTitle != nil {
		m.UserTitle = *update.UserTitle
	}
	if update.UserRating != nil {
		m.UserRating = update.UserRating
	}
	if update.UserNotes != nil {
		m.UserNotes = *update.UserNotes
	}
	m.ApplyFacts(update.Facts)

	if !m.HasTitle() {
		return nil, apperrors.ValidationWithDetails("movie needs a non-empty name", map[string]string{"name": "required"})
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE movies SET
			name = ?, year = ?, director = ?, rating = ?, poster = ?,
			external_id = ?, external_link = ?,
			user_title = ?, user_rating = ?, user_notes = ?
		WHERE id = ? AND owner_id = ?`,
		m.Name,
		nullInt(m.Year),
		nullString(m.Director),
		nullFloat(m.Rating),
		nullString(m.Poster),
		nullString(m.ExternalID),
		nullString(m.ExternalLink),
		nullString(m.UserTitle),
		nullFloat(m.UserRating),
		nullString(m.UserNotes),
		movieID,
		ownerID,
	)
	if err != nil {
		return nil, apperrors.Storage("update movie", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, apperrors.Storage("commit update movie", err)
	}

	s.logger.Debug("movie updated", "movie_id", movieID, "owner_id", ownerID)
	return m, nil
}

// DeleteMovie removes a movie scoped to its owner. Returns errors.ErrNotFound
// if the movie does not exist under the given owner, including on a repeated
// delete.
func (s *Store) DeleteMovie(ctx context.Context, ownerID, movieID string) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM movies WHERE id = ? AND owner_id = ?`, movieID, ownerID)
	if err != nil {
		return apperrors.Storage("delete movie", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Storage("delete movie", err)
	}
	if affected == 0 {
		return apperrors.NotFoundf("movie %s not found for user %s", movieID, ownerID)
	}

	s.logger.Debug("movie deleted", "movie_id", movieID, "owner_id", ownerID)
	return nil
}
