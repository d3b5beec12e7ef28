package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/metinatakli/cinema-booking/internal/domain"
)

const userColumns = `id, login, name, email, password_hash, avatar, favorite_genres, language, theme, is_admin, created_at`

type PostgresUserRepository struct {
	db *pgxpool.Pool
}

func NewPostgresUserRepository(db *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{
		db: db,
	}
}

func (p *PostgresUserRepository) Create(ctx context.Context, user *domain.User) error {
	query := `INSERT INTO users (login, name, email, password_hash)
		VALUES ($1, $2, $3, $4)
		RETURNING id, avatar, favorite_genres, language, theme, is_admin, created_at`

	err := p.db.QueryRow(ctx,
		query,
		user.Login,
		user.Name,
		user.Email,
		user.Password.Hash).Scan(
		&user.ID,
		&user.Profile.Avatar,
		&user.Profile.FavoriteGenres,
		&user.Profile.Language,
		&user.Profile.Theme,
		&user.IsAdmin,
		&user.CreatedAt,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return domain.ErrUserAlreadyExists
		}

		return err
	}

	return nil
}

func (p *PostgresUserRepository) GetByLogin(ctx context.Context, login string) (*domain.User, error) {
	query := `SELECT ` + userColumns + `
		FROM users
		WHERE login = $1 OR lower(email) = lower($1)`

	return p.getUser(ctx, query, login)
}

func (p *PostgresUserRepository) GetById(ctx context.Context, id int) (*domain.User, error) {
	query := `SELECT ` + userColumns + `
		FROM users
		WHERE id = $1`

	return p.getUser(ctx, query, id)
}

func (p *PostgresUserRepository) Update(ctx context.Context, user *domain.User) error {
	query := `UPDATE users
		SET name = $1, avatar = $2, favorite_genres = $3, language = $4, theme = $5
		WHERE id = $6`

	genres := user.Profile.FavoriteGenres
	if genres == nil {
		genres = []string{}
	}

	result, err := p.db.Exec(ctx,
		query,
		user.Name,
		user.Profile.Avatar,
		genres,
		user.Profile.Language,
		user.Profile.Theme,
		user.ID)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return domain.ErrRecordNotFound
	}

	return nil
}

func (p *PostgresUserRepository) ExistsByLogin(ctx context.Context, login string) (bool, error) {
	return p.exists(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE login = $1)`, login)
}

func (p *PostgresUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return p.exists(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE lower(email) = lower($1))`, email)
}

func (p *PostgresUserRepository) exists(ctx context.Context, query string, arg any) (bool, error) {
	var exists bool

	err := p.db.QueryRow(ctx, query, arg).Scan(&exists)
	if err != nil {
		return false, err
	}

	return exists, nil
}

func (p *PostgresUserRepository) getUser(ctx context.Context, query string, arg any) (*domain.User, error) {
	var user domain.User

	err := p.db.QueryRow(ctx, query, arg).Scan(
		&user.ID,
		&user.Login,
		&user.Name,
		&user.Email,
		&user.Password.Hash,
		&user.Profile.Avatar,
		&user.Profile.FavoriteGenres,
		&user.Profile.Language,
		&user.Profile.Theme,
		&user.IsAdmin,
		&user.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	return &user, nil
}
