package querypager

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Page_MarshalJSON(t *testing.T) {
	next := "eyJ9"

	tests := []struct {
		name string
		page Page[map[string]int]
		want string
	}{
		{
			name: "offset page",
			page: Page[map[string]int]{Offset: &OffsetPage[map[string]int]{Rows: []map[string]int{{"id": 1}}, Page: 2, Limit: 1}},
			want: `{"rows":[{"id":1}],"page":2,"limit":1}`,
		},
		{
			name: "cursor page with next cursor",
			page: Page[map[string]int]{Cursor: &CursorPage[map[string]int]{Rows: []map[string]int{{"id": 1}}, NextCursor: &next}},
			want: `{"rows":[{"id":1}],"nextCursor":"eyJ9"}`,
		},
		{
			name: "last cursor page",
			page: Page[map[string]int]{Cursor: &CursorPage[map[string]int]{Rows: nonNilRows[map[string]int](nil)}},
			want: `{"rows":[],"nextCursor":null}`,
		},
		{
			name: "empty page",
			page: Page[map[string]int]{},
			want: `null`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := json.Marshal(tt.page)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(got))

			got, err = json.Marshal(&tt.page)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(got))
		})
	}
}

func Test_Page_Rows(t *testing.T) {
	var nilPage *Page[int]
	assert.Nil(t, nilPage.Rows())
	assert.Nil(t, (&Page[int]{}).Rows())
	assert.Equal(t, []int{1}, (&Page[int]{Offset: &OffsetPage[int]{Rows: []int{1}}}).Rows())
	assert.Equal(t, []int{2}, (&Page[int]{Cursor: &CursorPage[int]{Rows: []int{2}}}).Rows())

	var nilCursor *CursorPage[int]
	assert.False(t, nilCursor.HasMore())
}

func Test_IsLastPage_TrimResultSet(t *testing.T) {
	tests := []struct {
		name     string
		limit    int
		rs       []int
		wantLast bool
		wantRows []int
	}{
		{"fewer rows than limit", 3, []int{1, 2}, true, []int{1, 2}},
		{"exact match to limit", 3, []int{1, 2, 3}, true, []int{1, 2, 3}},
		{"lookahead row present", 3, []int{1, 2, 3, 4}, false, []int{1, 2, 3}},
		{"empty", 3, nil, true, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantLast, IsLastPage(tt.limit, tt.rs))
			assert.Equal(t, tt.wantRows, TrimResultSet(tt.limit, tt.rs))
		})
	}
}
