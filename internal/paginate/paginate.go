package paginate

import (
	"net/url"
	"slices"
	"strconv"
	"time"
)

// Timestamped - запись, упорядочиваемая по времени.
type Timestamped interface {
	Timestamp() time.Time
}

// Newest возвращает копию items, отсортированную по убыванию времени и
// обрезанную до limit элементов. limit <= 0 отключает обрезку.
// Записи с равным временем сохраняют исходный порядок.
func Newest[T Timestamped](items []T, limit int) []T {
	out := slices.Clone(items)
	slices.SortStableFunc(out, func(a, b T) int {
		return b.Timestamp().Compare(a.Timestamp())
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Oldest возвращает копию items, отсортированную по возрастанию времени.
func Oldest[T Timestamped](items []T) []T {
	out := slices.Clone(items)
	slices.SortStableFunc(out, func(a, b T) int {
		return a.Timestamp().Compare(b.Timestamp())
	})
	return out
}

// Window возвращает срез items[offset:offset+limit] с учётом границ.
func Window[T any](items []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items
}

// Params - параметры постраничного вывода.
type Params struct {
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
}

// ParseParams читает page и page_size из запроса.
// Некорректные значения заменяются на 1 и defaultSize.
func ParseParams(q url.Values, defaultSize, maxSize int) Params {
	page, err := strconv.Atoi(q.Get("page"))
	if err != nil || page < 1 {
		page = 1
	}

	pageSize, err := strconv.Atoi(q.Get("page_size"))
	if err != nil || pageSize < 1 || pageSize > maxSize {
		pageSize = defaultSize
	}
	return Params{Page: page, PageSize: pageSize}
}

// Offset возвращает число пропускаемых записей.
func (p Params) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// Response описывает положение страницы в выдаче.
type Response struct {
	TotalItems   int  `json:"total_items"`
	TotalPages   int  `json:"total_pages"`
	CurrentPage  int  `json:"current_page"`
	ItemsPerPage int  `json:"items_per_page"`
	HasNext      bool `json:"has_next"`
	HasPrevious  bool `json:"has_previous"`
}

func NewResponse(total int, p Params) Response {
	pages := 0
	if p.PageSize > 0 {
		pages = (total + p.PageSize - 1) / p.PageSize
	}
	return Response{
		TotalItems:   total,
		TotalPages:   pages,
		CurrentPage:  p.Page,
		ItemsPerPage: p.PageSize,
		HasNext:      p.Page < pages,
		HasPrevious:  p.Page > 1,
	}
}

// NextPage и PreviousPage удобны в шаблонах.
func (r Response) NextPage() int     { return r.CurrentPage + 1 }
func (r Response) PreviousPage() int { return r.CurrentPage - 1 }
