package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/api-sage/coop-banking-core/internal/domain"
	"github.com/api-sage/coop-banking-core/internal/logger"
)

type MemberRepository struct {
	db *sql.DB
}

func NewMemberRepository(db *sql.DB) *MemberRepository {
	return &MemberRepository{db: db}
}

func (r *MemberRepository) Create(ctx context.Context, member domain.Member) (domain.Member, error) {
	logger.Info("member repository create", logger.Fields{
		"memberNumber": member.MemberNumber,
	})

	const query = `
INSERT INTO members (
	member_number,
	first_name,
	middle_name,
	last_name,
	phone_number,
	status,
	transaction_pin_hash,
	joined_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(
		ctx,
		query,
		member.MemberNumber,
		member.FirstName,
		member.MiddleName,
		member.LastName,
		member.PhoneNumber,
		member.Status,
		member.TransactionPinHash,
		member.JoinedAt,
	).Scan(&member.ID, &member.CreatedAt, &member.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Member{}, fmt.Errorf("member number %s: %w", member.MemberNumber, domain.ErrDuplicateResource)
		}
		logger.Error("member repository create failed", err, logger.Fields{
			"memberNumber": member.MemberNumber,
		})
		return domain.Member{}, fmt.Errorf("create member: %w", err)
	}

	return member, nil
}

func (r *MemberRepository) GetByID(ctx context.Context, id string) (domain.Member, error) {
	const query = `
SELECT id, member_number, first_name, middle_name, last_name, phone_number, status, transaction_pin_hash, joined_at, created_at, updated_at
FROM members
WHERE id = $1`

	var member domain.Member
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&member.ID,
		&member.MemberNumber,
		&member.FirstName,
		&member.MiddleName,
		&member.LastName,
		&member.PhoneNumber,
		&member.Status,
		&member.TransactionPinHash,
		&member.JoinedAt,
		&member.CreatedAt,
		&member.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Member{}, fmt.Errorf("member %s: %w", id, domain.ErrNotFound)
		}
		return domain.Member{}, fmt.Errorf("get member by id: %w", err)
	}

	return member, nil
}
