package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func Test_storedName(t *testing.T) {
	now := time.UnixMilli(1700000000123)

	assert.Equal(t, "1700000000123-report.pdf", storedName(now, "report.pdf"))
	assert.Equal(t, "1700000000123-passwd", storedName(now, "../../etc/passwd"))
	assert.Equal(t, "1700000000123-evil.txt", storedName(now, `C:\tmp\evil.txt`))
	assert.Equal(t, "1700000000123-file", storedName(now, ""))
}

func TestDisk_SaveAndServe(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	dir := filepath.Join(t.TempDir(), "uploads")
	fs, err := NewDisk(dir, zap.NewNop())
	require.NoError(err)

	name, err := fs.Save(context.Background(), "notes.txt", strings.NewReader("hello"))
	require.NoError(err)
	assert.True(strings.HasSuffix(name, "-notes.txt"))

	b, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(err)
	assert.Equal("hello", string(b))

	rr := httptest.NewRecorder()
	fs.ServeHTTP(rr, httptest.NewRequest("GET", "/"+name, nil))
	assert.Equal(http.StatusOK, rr.Code)
	assert.Equal("hello", rr.Body.String())
}

type fakeS3 struct {
	key  string
	body string
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.key = *in.Key
	b, err := io.ReadAll(in.Body)
	f.body = string(b)
	return &s3.PutObjectOutput{}, err
}

func (f *fakeS3) PresignGetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
	return &v4.PresignedHTTPRequest{URL: "https://bucket.example/" + *in.Key + "?sig=1", Method: "GET"}, nil
}

func TestS3_SaveAndServe(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	fake := &fakeS3{}
	store := &s3Store{
		bucket:  "attachments",
		client:  fake,
		presign: fake,
		log:     zap.NewNop(),
		now:     func() time.Time { return time.UnixMilli(42) },
	}

	name, err := store.Save(context.Background(), "a.png", strings.NewReader("png"))
	require.NoError(err)
	assert.Equal("42-a.png", name)
	assert.Equal("42-a.png", fake.key)
	assert.Equal("png", fake.body)

	rr := httptest.NewRecorder()
	store.ServeHTTP(rr, httptest.NewRequest("GET", "/42-a.png", nil))
	assert.Equal(http.StatusFound, rr.Code)
	assert.Equal("https://bucket.example/42-a.png?sig=1", rr.Header().Get("Location"))

	rr = httptest.NewRecorder()
	store.ServeHTTP(rr, httptest.NewRequest("GET", "/", nil))
	assert.Equal(http.StatusNotFound, rr.Code)
}
