package attachment

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeS3 answers the handful of path-style object calls the driver makes.
type fakeS3 struct {
	mu    sync.Mutex
	state map[string]fakeObject
}

type fakeObject struct {
	body        []byte
	contentType string
	fileName    string
}

func response(status int, body []byte, h http.Header) *http.Response {
	if h == nil {
		h = http.Header{}
	}
	return &http.Response{StatusCode: status, Body: io.NopCloser(bytes.NewReader(body)), Header: h}
}

func (f *fakeS3) RoundTrip(req *http.Request) (*http.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	parts := strings.SplitN(strings.TrimPrefix(req.URL.Path, "/"), "/", 2)
	key := ""
	if len(parts) == 2 {
		key = parts[1]
	}
	obj, ok := f.state[key]
	headers := func() http.Header {
		return http.Header{
			"Content-Length":       {strconv.Itoa(len(obj.body))},
			"Content-Type":         {obj.contentType},
			"Last-Modified":        {time.Now().UTC().Format(http.TimeFormat)},
			"X-Amz-Meta-File-Name": {obj.fileName},
		}
	}
	switch req.Method {
	case http.MethodHead:
		if !ok {
			return response(http.StatusNotFound, nil, nil), nil
		}
		return response(http.StatusOK, nil, headers()), nil
	case http.MethodGet:
		if !ok {
			body := []byte(`<?xml version="1.0"?><Error><Code>NoSuchKey</Code><Message>missing</Message></Error>`)
			return response(http.StatusNotFound, body, http.Header{"Content-Type": {"application/xml"}}), nil
		}
		return response(http.StatusOK, obj.body, headers()), nil
	case http.MethodPut:
		body, _ := io.ReadAll(req.Body)
		f.state[key] = fakeObject{body: body, contentType: req.Header.Get("Content-Type"), fileName: req.Header.Get("X-Amz-Meta-File-Name")}
		return response(http.StatusOK, nil, http.Header{"ETag": {`"etag"`}}), nil
	case http.MethodDelete:
		delete(f.state, key)
		return response(http.StatusNoContent, nil, nil), nil
	}
	return response(http.StatusNotImplemented, nil, nil), nil
}

func newFakeS3(t *testing.T) *S3 {
	t.Helper()
	fake := &fakeS3{state: map[string]fakeObject{}}
	s, err := NewS3(context.Background(), S3Config{
		Bucket:          "attachments",
		Endpoint:        "http://s3.test.local",
		AccessKeyID:     "AKIA",
		SecretAccessKey: "SECRET",
		PathStyle:       true,
	}, func(o *s3.Options) {
		o.HTTPClient = &http.Client{Transport: fake}
		o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
		o.ResponseChecksumValidation = aws.ResponseChecksumValidationWhenRequired
	})
	require.NoError(t, err)
	return s
}

func TestStores(t *testing.T) {
	drivers := map[string]func(t *testing.T) Store{
		"memory": func(t *testing.T) Store { return NewMemory() },
		"fs": func(t *testing.T) Store {
			s, err := NewFilesystem(t.TempDir())
			require.NoError(t, err)
			return s
		},
		"s3": func(t *testing.T) Store { return newFakeS3(t) },
	}
	for name, open := range drivers {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := open(t)
			key := NewKey(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), "Order.PDF")

			info, err := s.Put(ctx, key, strings.NewReader("%PDF-1.7"), PutOptions{FileName: "Order.PDF", ContentType: "application/pdf"})
			require.NoError(t, err)
			assert.Equal(t, key, info.Key)
			assert.EqualValues(t, 8, info.Size)

			_, err = s.Put(ctx, key, strings.NewReader("again"), PutOptions{})
			assert.Error(t, err, "put must not overwrite")

			got, rc, err := s.Get(ctx, key)
			require.NoError(t, err)
			body, err := io.ReadAll(rc)
			require.NoError(t, rc.Close())
			require.NoError(t, err)
			assert.Equal(t, "%PDF-1.7", string(body))
			assert.Equal(t, "application/pdf", got.ContentType)

			existed, err := s.Delete(ctx, key)
			require.NoError(t, err)
			assert.True(t, existed)

			existed, err = s.Delete(ctx, key)
			require.NoError(t, err)
			assert.False(t, existed)

			_, _, err = s.Get(ctx, key)
			assert.ErrorIs(t, err, ErrNotFound)
			_, err = s.Head(ctx, key)
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestNewKeyKeepsExtension(t *testing.T) {
	now := time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC)
	k1 := NewKey(now, `C:\scans\PO 12.JPG`)
	k2 := NewKey(now, "PO 12.jpg")
	assert.True(t, strings.HasPrefix(k1, "request-admin/2026/10/"))
	assert.True(t, strings.HasSuffix(k1, ".jpg"))
	assert.NotEqual(t, k1, k2)
	assert.False(t, strings.Contains(NewKey(now, "noext"), "."))
}

func TestFilesystemRejectsTraversal(t *testing.T) {
	s, err := NewFilesystem(t.TempDir())
	require.NoError(t, err)
	_, err = s.Put(context.Background(), "../escape", strings.NewReader("x"), PutOptions{})
	assert.Error(t, err)
	_, err = s.Put(context.Background(), "/abs", strings.NewReader("x"), PutOptions{})
	assert.Error(t, err)
}

func TestOpenSelectsDriver(t *testing.T) {
	ctx := context.Background()
	s, err := Open(ctx, Config{Driver: DriverMemory})
	require.NoError(t, err)
	assert.Equal(t, DriverMemory, s.Driver())

	s, err = Open(ctx, Config{Dir: t.TempDir()})
	require.NoError(t, err)
	assert.Equal(t, DriverFilesystem, s.Driver())

	_, err = Open(ctx, Config{Driver: DriverS3})
	assert.Error(t, err, "bucket is required")

	_, err = Open(ctx, Config{Driver: "ftp"})
	assert.Error(t, err)
}
