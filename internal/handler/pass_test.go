package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/sunrinpass/server/internal/dto"
	"github.com/sunrinpass/server/internal/model"
	"github.com/sunrinpass/server/internal/repository"
	"github.com/sunrinpass/server/internal/service"
)

type passHandlerFixture struct {
	db      *gorm.DB
	qr      *service.QRCodeService
	engine  *gin.Engine
	student *model.User
	teacher *model.User
}

func newPassHandlerFixture(t *testing.T) *passHandlerFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&model.User{}, &model.Pass{}))

	qr := service.NewQRCodeService("qr-test-secret")
	passes := service.NewPassService(repository.NewPassRepository(db), repository.NewUserRepository(db), qr)
	h := NewPassHandler(passes)

	engine := gin.New()
	engine.POST("/api/passes/verify", h.Verify)

	f := &passHandlerFixture{db: db, qr: qr, engine: engine}

	f.student = &model.User{Email: "student@sunrin.hs.kr", FirstName: "Test", LastName: "Student"}
	require.NoError(t, db.Create(f.student).Error)
	f.teacher = &model.User{Email: "teacher@sunrin.hs.kr", FirstName: "Test", LastName: "Teacher", IsTeacher: true}
	require.NoError(t, db.Create(f.teacher).Error)

	return f
}

func (f *passHandlerFixture) seedApprovedPass(t *testing.T) *model.Pass {
	t.Helper()
	pass := &model.Pass{
		Type:      model.PassTypeEarlyLeave,
		StartTime: time.Now().Add(-time.Hour),
		Reason:    "dentist appointment",
		Status:    model.PassStatusApproved,
		StudentID: f.student.ID,
		TeacherID: f.teacher.ID,
		ExpiresAt: time.Now().Add(time.Hour),
	}
	require.NoError(t, f.db.Create(pass).Error)
	return pass
}

func (f *passHandlerFixture) postVerify(t *testing.T, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/passes/verify", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)
	return w
}

func TestVerifyEndpointRedeemsPass(t *testing.T) {
	f := newPassHandlerFixture(t)
	pass := f.seedApprovedPass(t)

	w := f.postVerify(t, dto.VerifyPassRequest{ID: pass.ID, Hash: f.qr.GenerateHash(pass.ID)})
	require.Equal(t, http.StatusOK, w.Code)

	var result dto.VerifyPassResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.True(t, result.IsValid)
	assert.Equal(t, model.PassStatusExpired, result.Status)

	// Second scan of the same proof is refused.
	w = f.postVerify(t, dto.VerifyPassRequest{ID: pass.ID, Hash: f.qr.GenerateHash(pass.ID)})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.False(t, result.IsValid)
}

func TestVerifyEndpointValidation(t *testing.T) {
	f := newPassHandlerFixture(t)

	cases := []struct {
		name string
		body map[string]string
	}{
		{"missing fields", map[string]string{}},
		{"id not a uuid", map[string]string{"id": "not-a-uuid", "hash": "deadbeef"}},
		{"hash wrong length", map[string]string{"id": "66666666-6666-4666-8666-666666666666", "hash": "abc"}},
		{"hash not hex", map[string]string{"id": "66666666-6666-4666-8666-666666666666", "hash": "zzzzzzzz"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := f.postVerify(t, tc.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestVerifyEndpointUnknownPass(t *testing.T) {
	f := newPassHandlerFixture(t)

	w := f.postVerify(t, dto.VerifyPassRequest{
		ID:   "66666666-6666-4666-8666-666666666666",
		Hash: "deadbeef",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}
