// Package pagination 把一个有序结果集按固定大小切页。
// 页码从 1 开始；缺失或非法的页码回落到第 1 页，越界的页码收敛到
// 最近的有效页（过小取第一页，过大取最后一页），而不是报错。
package pagination

import (
	"math"
	"strconv"
)

// PerPage 每页条数，全站统一
const PerPage = 10

type Page struct {
	Number     int
	PerPage    int
	Total      int64
	TotalPages int
	HasNext    bool
	HasPrev    bool
}

// New 根据总数和请求页码构造页对象，页码越界时收敛
func New(total int64, number, perPage int) Page {
	if perPage < 1 {
		perPage = PerPage
	}

	totalPages := int(math.Ceil(float64(total) / float64(perPage)))
	if totalPages == 0 {
		totalPages = 1
	}

	if number < 1 {
		number = 1
	}
	if number > totalPages {
		number = totalPages
	}

	return Page{
		Number:     number,
		PerPage:    perPage,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    number < totalPages,
		HasPrev:    number > 1,
	}
}

// FromQuery 解析 ?page= 参数；空串或非数字按第 1 页处理
func FromQuery(total int64, raw string) Page {
	number, err := strconv.Atoi(raw)
	if err != nil {
		number = 1
	}
	return New(total, number, PerPage)
}

func (p Page) Offset() int { return (p.Number - 1) * p.PerPage }

func (p Page) Limit() int { return p.PerPage }

func (p Page) NextNumber() int { return p.Number + 1 }

func (p Page) PrevNumber() int { return p.Number - 1 }
