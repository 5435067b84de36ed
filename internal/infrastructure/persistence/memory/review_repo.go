package memory

import (
	"context"
	"sort"

	"github.com/xiebiao/bookoutlet/internal/domain/review"
)

type reviewRepository struct {
	s *Store
}

func (r *reviewRepository) Create(ctx context.Context, rv *review.Review) error {
	defer r.s.lock(ctx)()

	for _, existing := range r.s.data.reviews {
		if existing.BookID == rv.BookID && existing.UserID == rv.UserID {
			return review.ErrDuplicateReview
		}
	}

	rv.ID = r.s.data.nextID("reviews")
	if rv.CreatedAt.IsZero() {
		rv.CreatedAt = r.s.now()
		rv.UpdatedAt = rv.CreatedAt
	}
	stored := *rv
	stored.Nickname = ""
	r.s.data.reviews[rv.ID] = stored
	return nil
}

func (r *reviewRepository) Update(ctx context.Context, rv *review.Review) error {
	defer r.s.lock(ctx)()

	stored, ok := r.s.data.reviews[rv.ID]
	if !ok {
		return review.ErrReviewNotFound
	}
	stored.Rating = rv.Rating
	stored.Comment = rv.Comment
	stored.UpdatedAt = rv.UpdatedAt
	r.s.data.reviews[rv.ID] = stored
	return nil
}

func (r *reviewRepository) Delete(ctx context.Context, id uint) error {
	defer r.s.lock(ctx)()

	if _, ok := r.s.data.reviews[id]; !ok {
		return review.ErrReviewNotFound
	}
	delete(r.s.data.reviews, id)
	return nil
}

func (r *reviewRepository) FindByID(ctx context.Context, id uint) (*review.Review, error) {
	defer r.s.lock(ctx)()

	rv, ok := r.s.data.reviews[id]
	if !ok {
		return nil, review.ErrReviewNotFound
	}
	return r.withNickname(rv), nil
}

func (r *reviewRepository) FindByBookAndUser(ctx context.Context, bookID, userID uint) (*review.Review, error) {
	defer r.s.lock(ctx)()

	for _, rv := range r.s.data.reviews {
		if rv.BookID == bookID && rv.UserID == userID {
			return r.withNickname(rv), nil
		}
	}
	return nil, review.ErrReviewNotFound
}

func (r *reviewRepository) ListByBook(ctx context.Context, bookID uint) ([]*review.Review, error) {
	defer r.s.lock(ctx)()
	return r.list(func(rv review.Review) bool { return rv.BookID == bookID }), nil
}

func (r *reviewRepository) ListByUser(ctx context.Context, userID uint) ([]*review.Review, error) {
	defer r.s.lock(ctx)()
	return r.list(func(rv review.Review) bool { return rv.UserID == userID }), nil
}

func (r *reviewRepository) RatingStats(ctx context.Context, bookID uint) (int64, int64, error) {
	defer r.s.lock(ctx)()

	var sum, count int64
	for _, rv := range r.s.data.reviews {
		if rv.BookID == bookID {
			sum += int64(rv.Rating)
			count++
		}
	}
	return sum, count, nil
}

func (r *reviewRepository) Count(ctx context.Context) (int64, error) {
	defer r.s.lock(ctx)()
	return int64(len(r.s.data.reviews)), nil
}

// list 调用方已持有锁
func (r *reviewRepository) list(match func(review.Review) bool) []*review.Review {
	reviews := make([]*review.Review, 0)
	for _, rv := range r.s.data.reviews {
		if match(rv) {
			reviews = append(reviews, r.withNickname(rv))
		}
	}
	sort.Slice(reviews, func(i, j int) bool {
		if !reviews[i].CreatedAt.Equal(reviews[j].CreatedAt) {
			return reviews[i].CreatedAt.After(reviews[j].CreatedAt)
		}
		return reviews[i].ID > reviews[j].ID
	})
	return reviews
}

func (r *reviewRepository) withNickname(rv review.Review) *review.Review {
	if u, ok := r.s.data.users[rv.UserID]; ok {
		rv.Nickname = u.Nickname
	}
	return &rv
}
