package user_repo

import (
	"casino_engine/internal/model"
	"casino_engine/internal/repository"
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	table           = "users"
	colID           = "id"
	colName         = "name"
	colLogin        = "login"
	colPasswordHash = "password_hash"
	colBalance      = "balance"
)

type repo struct {
	dbc *pgxpool.Pool
}

func NewUserRepository(dbc *pgxpool.Pool) repository.UserRepository {
	return &repo{
		dbc: dbc,
	}
}

// CreateUser - создает нового пользователя в БД.
// Возвращает ID созданного пользователя
func (r *repo) CreateUser(ctx context.Context, user *model.User) (int, error) {
	// Формируем запрос
	query := sq.Insert(table).
		Columns(colName, colLogin, colPasswordHash, colBalance).
		Values(user.Name, user.Login, user.Password, user.Balance).
		Suffix("RETURNING " + colID).
		PlaceholderFormat(sq.Dollar)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return 0, err
	}

	var id int
	err = r.dbc.QueryRow(ctx, sqlStr, args...).Scan(&id)
	if err != nil {
		return 0, err
	}

	return id, nil
}

// GetUserByLogin - возвращает модель пользователя (ID, Name, Login, Password, Balance) по его логину
func (r *repo) GetUserByLogin(ctx context.Context, login string) (*model.User, error) {
	// Формируем запрос
	query := sq.Select(colID, colName, colLogin, colPasswordHash, colBalance).
		From(table).
		Where(sq.Eq{colLogin: login}).
		PlaceholderFormat(sq.Dollar)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	var user model.User
	err = r.dbc.QueryRow(ctx, sqlStr, args...).Scan(&user.ID, &user.Name, &user.Login, &user.Password, &user.Balance)
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// GetUserByID - возвращает модель пользователя по его ID
func (r *repo) GetUserByID(ctx context.Context, id int) (*model.User, error) {
	// Формируем запрос
	query := sq.Select(colID, colName, colLogin, colPasswordHash, colBalance).
		From(table).
		Where(sq.Eq{colID: id}).
		PlaceholderFormat(sq.Dollar)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	var user model.User
	err = r.dbc.QueryRow(ctx, sqlStr, args...).Scan(&user.ID, &user.Name, &user.Login, &user.Password, &user.Balance)
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// GetBalance - получение баланса пользователя по его ID
func (r *repo) GetBalance(ctx context.Context, id int) (int64, error) {
	// Формируем запрос
	query := sq.Select(colBalance).
		From(table).
		Where(sq.Eq{colID: id}).
		PlaceholderFormat(sq.Dollar)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return 0, err
	}

	var balance int64
	err = r.dbc.QueryRow(ctx, sqlStr, args...).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, fmt.Errorf("user %d not found", id)
		}
		return 0, err
	}

	return balance, nil
}

// DebitBalance - атомарное списание со счета: условие balance >= amount
// проверяется самим апдейтом, баланс не уходит в минус даже при
// конкурентных списаниях
func (r *repo) DebitBalance(ctx context.Context, id int, amount int64) (int64, error) {
	// Формируем запрос
	query := sq.Update(table).
		Set(colBalance, sq.Expr(colBalance+" - ?", amount)).
		Where(sq.Eq{colID: id}).
		Where(sq.GtOrEq{colBalance: amount}).
		Suffix("RETURNING " + colBalance).
		PlaceholderFormat(sq.Dollar)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return 0, err
	}

	var balance int64
	err = r.dbc.QueryRow(ctx, sqlStr, args...).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Строка не обновилась: либо нет пользователя, либо нехватка
			return 0, fmt.Errorf("%w: balance below %d", model.ErrInsufficientFunds, amount)
		}
		return 0, err
	}

	return balance, nil
}

// CreditBalance - начисление на счет. Возвращает новый баланс
func (r *repo) CreditBalance(ctx context.Context, id int, amount int64) (int64, error) {
	// Формируем запрос
	query := sq.Update(table).
		Set(colBalance, sq.Expr(colBalance+" + ?", amount)).
		Where(sq.Eq{colID: id}).
		Suffix("RETURNING " + colBalance).
		PlaceholderFormat(sq.Dollar)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return 0, err
	}

	var balance int64
	err = r.dbc.QueryRow(ctx, sqlStr, args...).Scan(&balance)
	if err != nil {
		return 0, err
	}

	return balance, nil
}
