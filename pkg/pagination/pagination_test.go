package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveDefaults(t *testing.T) {
	p := Resolve(0, -1, 10)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 10, p.Limit)
	assert.Equal(t, 0, p.Offset())

	p = ResolveStrings("abc", "", 5)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 5, p.Limit)
}

func TestOffsetRange(t *testing.T) {
	p := Resolve(3, 5, 5)
	assert.Equal(t, 10, p.Offset())
	assert.Equal(t, 14, p.End())
}

func TestMetaBounds(t *testing.T) {
	// total=23, limit=5 → 5 页
	p := Resolve(1, 5, 5)
	m := p.BuildMeta(23)
	assert.Equal(t, 5, m.Pages)
	assert.True(t, m.HasMore)
	if assert.NotNil(t, m.NextPage) {
		assert.Equal(t, 2, *m.NextPage)
	}
	assert.Nil(t, m.PrevPage)

	// 末页：hasMore=false, nextPage=null
	p = Resolve(5, 5, 5)
	m = p.BuildMeta(23)
	assert.False(t, m.HasMore)
	assert.Nil(t, m.NextPage)
	if assert.NotNil(t, m.PrevPage) {
		assert.Equal(t, 4, *m.PrevPage)
	}
}

func TestUnpaginatedSentinel(t *testing.T) {
	p := Resolve(1, 0, 5)
	assert.Equal(t, 0, p.Limit)
	assert.Equal(t, 0, p.Offset())

	m := p.BuildMeta(23)
	assert.Equal(t, 1, m.Pages)
	assert.False(t, m.HasMore)
	assert.Nil(t, m.NextPage)
}

func TestMetaEmptyTotal(t *testing.T) {
	m := Resolve(1, 5, 5).BuildMeta(0)
	assert.Equal(t, 1, m.Pages)
	assert.False(t, m.HasMore)
	assert.Nil(t, m.NextPage)
	assert.Nil(t, m.PrevPage)
}
