package book

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	apperrors "github.com/xiebiao/bookoutlet/pkg/errors"
)

const (
	maxTitleLen  = 100
	maxAuthorLen = 100
	maxGenreLen  = 50
	maxISBNLen   = 13
	maxCoverLen  = 100
)

var five = decimal.NewFromInt(5)

// Validate 校验图书的全部字段
// 所有字段一次性校验,每个字段只报告第一条不满足的规则
func Validate(b *Book) error {
	fields := make(map[string]string)

	if msg := validateTitle(b.Title); msg != "" {
		fields["title"] = msg
	}
	if msg := validateAuthor(b.Author); msg != "" {
		fields["author"] = msg
	}
	if b.Price.IsNegative() {
		fields["price"] = "价格不能为负数"
	}
	if b.Rating != nil && (b.Rating.IsNegative() || b.Rating.GreaterThan(five)) {
		fields["rating"] = "评分必须在0到5之间"
	}
	if b.CopiesAvailable < 0 {
		fields["copies_available"] = "库存数量不能为负数"
	}
	if utf8.RuneCountInString(b.Genre) > maxGenreLen {
		fields["genre"] = "类型不能超过50个字符"
	}
	if utf8.RuneCountInString(b.ISBN) > maxISBNLen {
		fields["isbn"] = "ISBN不能超过13个字符"
	}
	if utf8.RuneCountInString(b.CoverImage) > maxCoverLen {
		fields["cover_image"] = "封面文件名不能超过100个字符"
	}

	if len(fields) == 0 {
		return nil
	}
	return apperrors.NewValidation(fields)
}

// 首字符按原样判断,前导空格视为不合法
func validateTitle(title string) string {
	if strings.TrimSpace(title) == "" {
		return "书名不能为空"
	}
	first, _ := utf8.DecodeRuneInString(title)
	if !unicode.IsUpper(first) {
		return "书名必须以大写字母开头"
	}
	if utf8.RuneCountInString(title) > maxTitleLen {
		return "书名不能超过100个字符"
	}
	return ""
}

func validateAuthor(author string) string {
	if strings.TrimSpace(author) == "" {
		return "作者不能为空"
	}
	words := strings.Fields(author)
	if len(words) < 2 {
		return "作者需为\"名 姓\"格式"
	}
	for _, w := range words {
		first, _ := utf8.DecodeRuneInString(w)
		if !unicode.IsUpper(first) {
			return "作者姓名的每个单词必须以大写字母开头"
		}
	}
	if !isAuthorCharset(author) {
		return "作者姓名只能包含字母、空格和句点"
	}
	if utf8.RuneCountInString(author) > maxAuthorLen {
		return "作者不能超过100个字符"
	}
	return ""
}

// isAuthorCharset 仅允许ASCII字母、句点和空白,空白包括NBSP等Unicode空白
func isAuthorCharset(author string) bool {
	for _, r := range author {
		switch {
		case r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z', r == '.':
		case unicode.IsSpace(r):
		default:
			return false
		}
	}
	return true
}
