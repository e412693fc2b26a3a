package response

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		write      func(c *gin.Context)
		wantStatus int
		wantBody   string
	}{
		{
			name:       "success with object",
			write:      func(c *gin.Context) { Success(c, http.StatusCreated, gin.H{"id": 1}) },
			wantStatus: http.StatusCreated,
			wantBody:   `{"success":true,"data":{"id":1}}`,
		},
		{
			name:       "success with empty list keeps data",
			write:      func(c *gin.Context) { Success(c, 0, []int{}) },
			wantStatus: http.StatusOK,
			wantBody:   `{"success":true,"data":[]}`,
		},
		{
			name:       "failure",
			write:      func(c *gin.Context) { Fail(c, http.StatusNotFound, "user not found") },
			wantStatus: http.StatusNotFound,
			wantBody:   `{"success":false,"message":"user not found"}`,
		},
		{
			name:       "failure defaults to 500",
			write:      func(c *gin.Context) { Fail(c, 0, "boom") },
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"success":false,"message":"boom"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			tt.write(c)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.JSONEq(t, tt.wantBody, w.Body.String())
		})
	}
}

func TestAbortWithFail(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	AbortWithFail(c, http.StatusTooManyRequests, "rate limit exceeded")

	assert.True(t, c.IsAborted())
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.JSONEq(t, `{"success":false,"message":"rate limit exceeded"}`, w.Body.String())
}
