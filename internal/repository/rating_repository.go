package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/helpdeskd/helpdesk/internal/domain"
)

// RatingRepository stores ticket satisfaction ratings.
type RatingRepository interface {
	Create(ctx context.Context, rating *domain.TicketRating) error
	GetByTicket(ctx context.Context, ticketID string) (*domain.TicketRating, error)
}

type ratingRepository struct {
	pool *pgxpool.Pool
}

// NewRatingRepository builds repository.
func NewRatingRepository(pool *pgxpool.Pool) RatingRepository {
	return &ratingRepository{pool: pool}
}

func (r *ratingRepository) Create(ctx context.Context, rating *domain.TicketRating) error {
	const query = `
        INSERT INTO ticket_ratings (ticket_id, rated_by, stars, feedback)
        VALUES ($1,$2,$3,$4)
        RETURNING id, rated_at`
	return r.pool.QueryRow(ctx, query,
		rating.TicketID,
		rating.RatedBy,
		rating.Stars,
		rating.Feedback,
	).Scan(&rating.ID, &rating.RatedAt)
}

func (r *ratingRepository) GetByTicket(ctx context.Context, ticketID string) (*domain.TicketRating, error) {
	const query = `
        SELECT id, ticket_id, rated_by, stars, feedback, rated_at
        FROM ticket_ratings WHERE ticket_id=$1`
	var rating domain.TicketRating
	if err := r.pool.QueryRow(ctx, query, ticketID).Scan(
		&rating.ID,
		&rating.TicketID,
		&rating.RatedBy,
		&rating.Stars,
		&rating.Feedback,
		&rating.RatedAt,
	); err != nil {
		return nil, err
	}
	return &rating, nil
}
