package book

import (
	"time"

	"github.com/xiebiao/bookoutlet/internal/domain/book"
	"github.com/xiebiao/bookoutlet/internal/domain/review"
)

const dateLayout = "2006-01-02"

// BookResponse 图书详情DTO
// 金额以字符串输出,保留两位小数
type BookResponse struct {
	ID              uint     `json:"id"`
	Title           string   `json:"title"`
	Author          string   `json:"author"`
	Genre           string   `json:"genre"`
	ISBN            string   `json:"isbn"`
	Description     string   `json:"description"`
	Price           string   `json:"price"`
	Rating          *float64 `json:"rating"`
	CopiesAvailable int      `json:"copies_available"`
	IsFeatured      bool     `json:"is_featured"`
	PublicationDate string   `json:"publication_date,omitempty"`
	CoverURL        string   `json:"cover_url"`
	CreatedBy       *uint    `json:"created_by"`
	CreatedAt       string   `json:"created_at"`
}

// ReviewResponse 评论DTO
type ReviewResponse struct {
	ID        uint   `json:"id"`
	BookID    uint   `json:"book_id"`
	UserID    uint   `json:"user_id"`
	Nickname  string `json:"nickname"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// ToBookResponse 实体 → DTO
func ToBookResponse(b *book.Book) *BookResponse {
	resp := &BookResponse{
		ID:              b.ID,
		Title:           b.Title,
		Author:          b.Author,
		Genre:           b.Genre,
		ISBN:            b.ISBN,
		Description:     b.Description,
		Price:           b.Price.StringFixed(2),
		Rating:          b.RatingFloat(),
		CopiesAvailable: b.CopiesAvailable,
		IsFeatured:      b.IsFeatured,
		CoverURL:        b.CoverURL(),
		CreatedBy:       b.CreatedBy,
		CreatedAt:       b.CreatedAt.Format(time.DateTime),
	}
	if b.PublicationDate != nil {
		resp.PublicationDate = b.PublicationDate.Format(dateLayout)
	}
	return resp
}

// ToReviewResponse 实体 → DTO
func ToReviewResponse(r *review.Review) *ReviewResponse {
	return &ReviewResponse{
		ID:        r.ID,
		BookID:    r.BookID,
		UserID:    r.UserID,
		Nickname:  r.Nickname,
		Rating:    r.Rating,
		Comment:   r.Comment,
		CreatedAt: r.CreatedAt.Format(time.DateTime),
		UpdatedAt: r.UpdatedAt.Format(time.DateTime),
	}
}

// ToReviewResponses 批量转换
func ToReviewResponses(reviews []*review.Review) []*ReviewResponse {
	list := make([]*ReviewResponse, len(reviews))
	for i, r := range reviews {
		list[i] = ToReviewResponse(r)
	}
	return list
}
