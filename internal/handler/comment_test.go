package handler

import (
	"Vega_Tube/internal/service"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func feedParamsFromQuery(t *testing.T, query string) service.FeedParams {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/videos/1/comments?"+query, nil)
	return parseFeedParams(c)
}

// 什么参数都不带：limit=5、newest、无游标
func TestParseFeedParams_Defaults(t *testing.T) {
	params := feedParamsFromQuery(t, "")
	if params.Limit != service.DefaultFeedLimit {
		t.Errorf("Limit = %d, want %d", params.Limit, service.DefaultFeedLimit)
	}
	if params.SortBy != service.FeedSortNewest {
		t.Errorf("SortBy = %q, want newest", params.SortBy)
	}
	if params.Cursor != nil {
		t.Error("Cursor should be nil on first page")
	}
}

// 看不懂的参数一律回退默认值，绝不报错
func TestParseFeedParams_LenientFallbacks(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{"limit不是数字", "limit=abc"},
		{"limit是负数", "limit=-3"},
		{"limit是零", "limit=0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := feedParamsFromQuery(t, tt.query)
			if params.Limit != service.DefaultFeedLimit {
				t.Errorf("Limit = %d, want %d", params.Limit, service.DefaultFeedLimit)
			}
		})
	}
	// 不认识的排序模式按newest处理
	params := feedParamsFromQuery(t, "sortBy=hottest")
	if params.SortBy != service.FeedSortNewest {
		t.Errorf("SortBy = %q, want newest", params.SortBy)
	}
}

func TestParseFeedParams_NewestCursor(t *testing.T) {
	ts := time.Date(2025, 6, 1, 12, 30, 45, 123456789, time.UTC)
	params := feedParamsFromQuery(t, "sortBy=newest&id=42&cursor="+ts.Format(time.RFC3339Nano))
	if params.Cursor == nil {
		t.Fatal("Cursor should be parsed")
	}
	if params.Cursor.ID != 42 {
		t.Errorf("Cursor.ID = %d, want 42", params.Cursor.ID)
	}
	if !params.Cursor.CreatedAt.Equal(ts) {
		t.Errorf("Cursor.CreatedAt = %v, want %v", params.Cursor.CreatedAt, ts)
	}
}

func TestParseFeedParams_TopCursor(t *testing.T) {
	params := feedParamsFromQuery(t, "sortBy=top&id=42&likeCount=17")
	if params.Cursor == nil {
		t.Fatal("Cursor should be parsed")
	}
	if params.Cursor.ID != 42 || params.Cursor.LikeCount != 17 {
		t.Errorf("Cursor = %+v, want ID 42 likeCount 17", params.Cursor)
	}
	if params.SortBy != service.FeedSortTop {
		t.Errorf("SortBy = %q, want top", params.SortBy)
	}
}

// 游标必须id和排序键同时解析成功才算存在，缺一个都当第一页
func TestParseFeedParams_MalformedCursorIsFirstPage(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{"只有id没有时间", "sortBy=newest&id=42"},
		{"时间格式不对", "sortBy=newest&id=42&cursor=yesterday"},
		{"id不是数字", "sortBy=newest&id=abc&cursor=2025-06-01T12:00:00Z"},
		{"top模式缺likeCount", "sortBy=top&id=42"},
		{"top模式likeCount不是数字", "sortBy=top&id=42&likeCount=many"},
		{"模式和键对不上：top带的是时间", "sortBy=top&id=42&cursor=2025-06-01T12:00:00Z"},
		{"模式和键对不上：newest带的是likeCount", "sortBy=newest&id=42&likeCount=17"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := feedParamsFromQuery(t, tt.query)
			if params.Cursor != nil {
				t.Errorf("Cursor = %+v, want nil", params.Cursor)
			}
		})
	}
}

// 秒级精度的RFC3339时间戳也要能解析（客户端不一定带纳秒）
func TestParseFeedParams_SecondPrecisionTimestamp(t *testing.T) {
	params := feedParamsFromQuery(t, "id=7&cursor=2025-06-01T12:00:00Z")
	if params.Cursor == nil {
		t.Fatal("Cursor should be parsed")
	}
	want := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	if !params.Cursor.CreatedAt.Equal(want) {
		t.Errorf("Cursor.CreatedAt = %v, want %v", params.Cursor.CreatedAt, want)
	}
}
