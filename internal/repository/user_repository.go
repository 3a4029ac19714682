package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/event-ticket-reservation/internal/model"
	"github.com/iliyamo/event-ticket-reservation/internal/utils"
)

// UserRepo persists application users.  Users only matter to the
// allocation core through their ID; everything else here serves the
// auth surface.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// Create inserts a user with a bcrypt-hashed password and returns its ID.
func (r *UserRepo) Create(ctx context.Context, nickName, loginName, password string, cost int) (uint64, error) {
	loginName = strings.TrimSpace(loginName)
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (nick_name, login_name, pass_hash) VALUES (?,?,?)",
		nickName, loginName, hash)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrLoginNameExists
		}
		return 0, storeErr(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, storeErr(err)
	}
	return uint64(id), nil
}

// GetByLoginName fetches a user by login name.
func (r *UserRepo) GetByLoginName(ctx context.Context, loginName string) (model.User, error) {
	loginName = strings.TrimSpace(loginName)
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,nick_name,login_name,pass_hash,created_at,updated_at FROM users WHERE login_name=? LIMIT 1",
		loginName).Scan(&u.ID, &u.NickName, &u.LoginName, &u.PassHash, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,nick_name,login_name,pass_hash,created_at,updated_at FROM users WHERE id=? LIMIT 1",
		id).Scan(&u.ID, &u.NickName, &u.LoginName, &u.PassHash, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// AdministratorRepo persists administrators.  Administrators live in
// their own table so the two identity spaces cannot collide; the JWT
// role claim is what separates their capabilities at request time.
type AdministratorRepo struct{ DB *sql.DB }

func NewAdministratorRepo(db *sql.DB) *AdministratorRepo { return &AdministratorRepo{DB: db} }

// GetByLoginName fetches an administrator by login name.
func (r *AdministratorRepo) GetByLoginName(ctx context.Context, loginName string) (model.Administrator, error) {
	loginName = strings.TrimSpace(loginName)
	var a model.Administrator
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,nick_name,login_name,pass_hash,created_at,updated_at FROM administrators WHERE login_name=? LIMIT 1",
		loginName).Scan(&a.ID, &a.NickName, &a.LoginName, &a.PassHash, &a.CreatedAt, &a.UpdatedAt)
	return a, err
}

// GetByID fetches an administrator by id.
func (r *AdministratorRepo) GetByID(ctx context.Context, id uint64) (model.Administrator, error) {
	var a model.Administrator
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,nick_name,login_name,pass_hash,created_at,updated_at FROM administrators WHERE id=? LIMIT 1",
		id).Scan(&a.ID, &a.NickName, &a.LoginName, &a.PassHash, &a.CreatedAt, &a.UpdatedAt)
	return a, err
}
