package utils

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestNewPaginationParams(t *testing.T) {
	tests := []struct {
		name      string
		page      int
		limit     int
		order     string
		wantPage  int
		wantLimit int
		wantOrder string
	}{
		{"defaults", 0, 0, "", 1, DefaultPageSize, "desc"},
		{"clamps limit", 2, 1000, "asc", 2, MaxPageSize, "asc"},
		{"bad order", 3, 25, "sideways", 3, 25, "desc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPaginationParams(tt.page, tt.limit, "", tt.order, "")
			assert.Equal(t, tt.wantPage, p.Page)
			assert.Equal(t, tt.wantLimit, p.Limit)
			assert.Equal(t, tt.wantOrder, p.Order)
			assert.Equal(t, "created_at", p.Sort)
		})
	}
}

func TestCreatePaginationMeta(t *testing.T) {
	p := NewPaginationParams(2, 10, "", "", "")
	meta := CreatePaginationMeta(p, 25)

	assert.Equal(t, 3, meta.TotalPages)
	assert.True(t, meta.HasNext)
	assert.True(t, meta.HasPrevious)
	assert.Equal(t, 10, p.GetSkip())

	empty := CreatePaginationMeta(NewPaginationParams(1, 10, "", "", ""), 0)
	assert.Equal(t, 0, empty.TotalPages)
	assert.False(t, empty.HasNext)
}

func TestGetSearchFilter_EscapesInput(t *testing.T) {
	p := NewPaginationParams(1, 10, "", "", "a.b(")
	filter := p.GetSearchFilter([]string{"name"})

	or := filter["$or"].([]bson.M)
	require.Len(t, or, 1)
	assert.Equal(t, `a\.b\(`, or[0]["name"].(bson.M)["$regex"])

	assert.Empty(t, NewPaginationParams(1, 10, "", "", "").GetSearchFilter([]string{"name"}))
}

func TestTokenPair(t *testing.T) {
	id := primitive.NewObjectID()
	settings := TokenSettings{Secret: "test-secret", AccessTTL: time.Minute}

	pair, err := GenerateTokenPair(id, "ADMIN", "a@b.in", settings)
	require.NoError(t, err)
	assert.Equal(t, int64(60), pair.ExpiresIn)

	claims, err := ValidateTokenOfType(pair.AccessToken, "test-secret", TokenTypeAccess)
	require.NoError(t, err)
	assert.Equal(t, id, claims.AdminID)
	assert.Equal(t, "ADMIN", claims.Role)

	_, err = ValidateTokenOfType(pair.RefreshToken, "test-secret", TokenTypeAccess)
	assert.ErrorIs(t, err, ErrWrongTokenType)

	_, err = ValidateToken(pair.AccessToken, "other-secret")
	assert.Error(t, err)
}

func TestResponses(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	SuccessResponse(c, "Pricing saved", gin.H{"pricing": gin.H{"basePrice": 500}})
	assert.Equal(t, 200, w.Code)
	assert.JSONEq(t, `{"success":true,"message":"Pricing saved","pricing":{"basePrice":500}}`, w.Body.String())

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	ConflictResponse(c, "already banned")
	assert.Equal(t, 409, w.Code)
	assert.JSONEq(t, `{"success":false,"message":"already banned","error":{"code":"CONFLICT","message":"already banned"}}`, w.Body.String())
}

func TestResizeIcon(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 600, 300))
	for x := 0; x < 600; x++ {
		src.Set(x, 10, color.RGBA{R: 255, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, src))

	out, format, err := ResizeIcon(&buf, "engine.png", 256)
	require.NoError(t, err)
	assert.Equal(t, "png", format)

	img, err := png.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 256, img.Bounds().Dx())
	assert.Equal(t, 128, img.Bounds().Dy())

	_, _, err = ResizeIcon(bytes.NewReader([]byte("not an image")), "icon.bin", 256)
	assert.ErrorIs(t, err, ErrUnsupportedImage)
}

func TestFormatPhone(t *testing.T) {
	assert.Equal(t, "+919876543210", FormatPhone("98765 43210", ""))
	assert.Equal(t, "+919876543210", FormatPhone("09876543210", "+91"))
	assert.Equal(t, "+14155550100", FormatPhone("+1 415 555 0100", ""))
	assert.Equal(t, "******3210", MaskPhone("9876543210"))
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-03-05")
	require.NoError(t, err)
	assert.Equal(t, 5, d.Day())
	assert.Equal(t, 23, EndOfDay(d).Hour())

	_, err = ParseDate("05/03/2024")
	assert.Error(t, err)
}
