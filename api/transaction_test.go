package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"

	"fintrack/models"
	"fintrack/service"
	"fintrack/store"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTransactionRouter(t *testing.T, userID uint) (*gin.Engine, *store.MemoryStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	st := store.NewMemoryStore()
	svc := service.NewTransactionService(st)
	reports := service.NewReportService(st)
	handler := NewTransactionHandler(svc, reports)

	router := gin.New()
	router.Use(setUserIDMiddleware(userID))
	router.POST("/transactions", handler.Create)
	router.GET("/transactions", handler.List)
	router.GET("/transactions/summary", handler.Summary)
	router.GET("/transactions/:id", handler.Get)
	router.PUT("/transactions/:id", handler.Update)
	router.DELETE("/transactions/:id", handler.Delete)
	return router, st
}

func seedTestCategory(t *testing.T, st *store.MemoryStore, userID uint, name, categoryType string) uint {
	t.Helper()
	cat := models.Category{UserID: userID, Name: name, Type: categoryType}
	require.NoError(t, st.CreateCategory(&cat))
	return cat.ID
}

func TestTransactionHandler_Create(t *testing.T) {
	router, st := setupTransactionRouter(t, 1)
	foodID := seedTestCategory(t, st, 1, "Food", models.DirectionExpense)

	body := fmt.Sprintf(`{"categoryId":%d,"direction":"EXPENSE","amount":"12.50","txnDate":"2026-01-03","description":"午餐"}`, foodID)
	req := httptest.NewRequest("POST", "/transactions", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "创建成功", resp["message"])

	// 金额以字符串序列化，保留两位小数
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "12.50", data["amount"])
	assert.Equal(t, "2026-01-03T00:00:00Z", data["txnDate"])
}

func TestTransactionHandler_Create_Validation(t *testing.T) {
	router, st := setupTransactionRouter(t, 1)
	foodID := seedTestCategory(t, st, 1, "Food", models.DirectionExpense)

	cases := []string{
		// 类别不存在
		`{"categoryId":999,"direction":"EXPENSE","amount":"10.00","txnDate":"2026-01-03"}`,
		// 非法方向
		fmt.Sprintf(`{"categoryId":%d,"direction":"TRANSFER","amount":"10.00","txnDate":"2026-01-03"}`, foodID),
		// 零金额
		fmt.Sprintf(`{"categoryId":%d,"direction":"EXPENSE","amount":"0","txnDate":"2026-01-03"}`, foodID),
		// 超过两位小数
		fmt.Sprintf(`{"categoryId":%d,"direction":"EXPENSE","amount":"1.005","txnDate":"2026-01-03"}`, foodID),
		// 非法日期
		fmt.Sprintf(`{"categoryId":%d,"direction":"EXPENSE","amount":"10.00","txnDate":"2026/01/03"}`, foodID),
	}
	for _, body := range cases {
		req := httptest.NewRequest("POST", "/transactions", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, 400, w.Code, "body=%s", body)
	}
}

func TestTransactionHandler_GetUpdateDelete(t *testing.T) {
	router, st := setupTransactionRouter(t, 1)
	foodID := seedTestCategory(t, st, 1, "Food", models.DirectionExpense)

	body := fmt.Sprintf(`{"categoryId":%d,"direction":"EXPENSE","amount":"12.50","txnDate":"2026-01-03"}`, foodID)
	req := httptest.NewRequest("POST", "/transactions", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, 200, w.Code)

	// 部分更新：只改金额
	req = httptest.NewRequest("PUT", "/transactions/1", bytes.NewBufferString(`{"amount":"88.00"}`))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, 200, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/transactions/1", nil))
	assert.Equal(t, 200, w.Code)
	assert.Contains(t, w.Body.String(), `"amount":"88.00"`)

	// 空更新体是校验错误
	req = httptest.NewRequest("PUT", "/transactions/1", bytes.NewBufferString(`{}`))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, 400, w.Code)

	// 删除后再取 404
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("DELETE", "/transactions/1", nil))
	assert.Equal(t, 200, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/transactions/1", nil))
	assert.Equal(t, 404, w.Code)

	// 非法 id
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/transactions/abc", nil))
	assert.Equal(t, 400, w.Code)
}

func TestTransactionHandler_List(t *testing.T) {
	router, st := setupTransactionRouter(t, 1)
	foodID := seedTestCategory(t, st, 1, "Food", models.DirectionExpense)

	for i := 0; i < 3; i++ {
		body := fmt.Sprintf(`{"categoryId":%d,"direction":"EXPENSE","amount":"1.00","txnDate":"2026-01-0%d"}`, foodID, i+1)
		req := httptest.NewRequest("POST", "/transactions", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		require.Equal(t, 200, w.Code)
	}

	// 第一页
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/transactions?take=2", nil))
	assert.Equal(t, 200, w.Code)

	var resp struct {
		Data struct {
			Take        int               `json:"take"`
			HasNextPage bool              `json:"hasNextPage"`
			NextCursor  *string           `json:"nextCursor"`
			List        []json.RawMessage `json:"list"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Data.Take)
	assert.True(t, resp.Data.HasNextPage)
	require.NotNil(t, resp.Data.NextCursor)
	assert.Len(t, resp.Data.List, 2)

	// 第二页走到末尾
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/transactions?take=2&cursor="+*resp.Data.NextCursor, nil))
	assert.Equal(t, 200, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Data.HasNextPage)
	assert.Nil(t, resp.Data.NextCursor)
	assert.Len(t, resp.Data.List, 1)

	// 非法游标
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/transactions?cursor=!!!", nil))
	assert.Equal(t, 400, w.Code)
}

func TestTransactionHandler_Summary(t *testing.T) {
	router, st := setupTransactionRouter(t, 1)
	foodID := seedTestCategory(t, st, 1, "Food", models.DirectionExpense)

	for _, amount := range []string{"12.50", "2.20"} {
		body := fmt.Sprintf(`{"categoryId":%d,"direction":"EXPENSE","amount":"%s","txnDate":"2026-01-03"}`, foodID, amount)
		req := httptest.NewRequest("POST", "/transactions", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		require.Equal(t, 200, w.Code)
	}

	// 默认方向为 EXPENSE
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/transactions/summary", nil))
	assert.Equal(t, 200, w.Code)
	assert.Contains(t, w.Body.String(), `"grandTotal":"14.70"`)
	assert.Contains(t, w.Body.String(), `"categoryName":"Food"`)

	// 非法方向
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/transactions/summary?direction=TRANSFER", nil))
	assert.Equal(t, 400, w.Code)
}
