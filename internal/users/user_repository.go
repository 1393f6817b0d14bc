package users

import (
	"errors"
	"fmt"

	"github.com/Ankitshrma25/IMS/internal/repository"
	"github.com/Ankitshrma25/IMS/pkg/apperrors"
	"github.com/Ankitshrma25/IMS/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"
)

type UserRepository interface {
	PersistUser(req models.CreateUserRequest, hashedPassword []byte) error
	GetUser(id int) (*models.User, error)
	GetUsers() ([]models.User, error)
}

type userRepositoryImpl struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) UserRepository {
	return &userRepositoryImpl{repository: r}
}

const uniqueViolationCode = "23505"

func (r *userRepositoryImpl) PersistUser(req models.CreateUserRequest, hashedPassword []byte) error {
	record := goqu.Record{
		"password_hash": string(hashedPassword),
		"username":      req.Username,
		"fullname":      req.Fullname,
		"role":          req.Role,
	}
	if req.Section != "" {
		record["section"] = req.Section
	}
	if req.Rank != "" {
		record["rank"] = req.Rank
	}

	query := r.repository.GoquDBWrapper.Insert("users").Rows(record)

	if _, err := query.Executor().Exec(); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolationCode {
			return apperrors.NewDuplicateError("username %q is already taken", req.Username)
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}

	return nil
}

func (r *userRepositoryImpl) GetUsers() ([]models.User, error) {
	var flats []models.FlatUserRecord
	query := r.repository.GoquDBWrapper.
		Select("id", "username", "fullname", "role", "section", "rank", "is_active").
		From("users").
		Where(goqu.Ex{"is_active": true}).
		Order(goqu.I("username").Asc())

	if err := query.Executor().ScanStructs(&flats); err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}

	users := make([]models.User, 0, len(flats))
	for i := range flats {
		users = append(users, flats[i].TransformToUser())
	}

	return users, nil
}

func (r *userRepositoryImpl) GetUser(id int) (*models.User, error) {
	var flat models.FlatUserRecord
	query := r.repository.GoquDBWrapper.
		Select("id", "username", "fullname", "role", "section", "rank", "is_active").
		From("users").
		Where(goqu.Ex{"id": id, "is_active": true})

	found, err := query.Executor().ScanStruct(&flat)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if !found {
		return nil, apperrors.NewNotFoundError("user", id)
	}

	user := flat.TransformToUser()
	return &user, nil
}
