// Package pagination 把 (page, limit) 解析成数据库 offset/range，并计算页数元信息。
// limit == 0 是约定哨兵：不分页，返回全部匹配行。
package pagination

import "strconv"

// Page 已解析的分页请求
type Page struct {
	Page  int
	Limit int // 0 = 不分页
}

// Offset 数据库偏移；不分页时恒为 0
func (p Page) Offset() int {
	if p.Limit <= 0 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

// End 闭区间右端 [offset, end]；不分页无意义，返回 -1
func (p Page) End() int {
	if p.Limit <= 0 {
		return -1
	}
	return p.Offset() + p.Limit - 1
}

// Resolve 解析 page/limit：page<1 归 1；limit<0 取组件默认；limit==0 保留哨兵
func Resolve(page, limit, defaultLimit int) Page {
	if page < 1 {
		page = 1
	}
	if limit < 0 {
		limit = defaultLimit
	}
	return Page{Page: page, Limit: limit}
}

// ResolveStrings 从原始查询串解析，非数字一律落默认值
func ResolveStrings(pageStr, limitStr string, defaultLimit int) Page {
	page, err := strconv.Atoi(pageStr)
	if err != nil {
		page = 1
	}
	limit, err := strconv.Atoi(limitStr)
	if err != nil {
		limit = defaultLimit
	}
	return Resolve(page, limit, defaultLimit)
}

// Meta 响应分页元信息
type Meta struct {
	Total    int64 `json:"total"`
	Page     int   `json:"page"`
	Pages    int   `json:"pages"`
	Limit    int   `json:"limit"`
	HasMore  bool  `json:"hasMore"`
	NextPage *int  `json:"nextPage"`
	PrevPage *int  `json:"prevPage"`
}

// BuildMeta 由总行数推元信息；limit==0（不分页）时 pages 恒为 1
func (p Page) BuildMeta(total int64) Meta {
	pages := 1
	if p.Limit > 0 {
		pages = int((total + int64(p.Limit) - 1) / int64(p.Limit))
		if pages < 1 {
			pages = 1
		}
	}
	m := Meta{
		Total:   total,
		Page:    p.Page,
		Pages:   pages,
		Limit:   p.Limit,
		HasMore: p.Page < pages,
	}
	if next := p.Page + 1; next <= pages {
		m.NextPage = &next
	}
	if prev := p.Page - 1; prev >= 1 && prev <= pages {
		m.PrevPage = &prev
	}
	return m
}
