package soracom

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/soracom-sdk/soracom-go/internal/api"
	"github.com/soracom-sdk/soracom-go/internal/mocks"
)

const authOKBody = `{"apiKey":"api-abc","operatorId":"OP0012345678","token":"tok-xyz"}`

func newMockClient(t *testing.T, opts ...Option) (*Client, *mocks.MockTransport) {
	t.Helper()
	ctrl := gomock.NewController(t)
	tr := mocks.NewMockTransport(ctrl)
	client, err := NewClient(EndpointGlobal, append([]Option{WithTransport(tr)}, opts...)...)
	require.NoError(t, err)
	return client, tr
}

func reply(status int, body string) *api.Response {
	return &api.Response{StatusCode: status, Body: []byte(body)}
}

// newServerClient starts a TLS server running handler and returns a client bound to it.
func newServerClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewTLSServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(strings.TrimPrefix(server.URL, "https://"), WithHTTPClient(server.Client()))
	require.NoError(t, err)
	return client
}

func TestNewClient_RequiresEndpoint(t *testing.T) {
	_, err := NewClient("")
	assert.ErrorIs(t, err, ErrMissingEndpoint)
}

func TestNewClient_RejectsNonHTTPSScheme(t *testing.T) {
	ctrl := gomock.NewController(t)
	tr := mocks.NewMockTransport(ctrl) // no Send expected

	client, err := NewClient("http://api.soracom.io", WithTransport(tr))
	assert.True(t, IsKind(err, KindURLParse), "err = %v", err)
	assert.Nil(t, client)

	_, err = NewSandboxClient(WithEndpoint("api-sandbox.soracom.io/v1"), WithTransport(tr))
	assert.True(t, IsKind(err, KindURLParse), "err = %v", err)
}

func TestNewClient_TokenTimeoutRange(t *testing.T) {
	_, err := NewClient(EndpointJapan, WithTokenTimeout(0))
	assert.Error(t, err)

	_, err = NewClient(EndpointJapan, WithTokenTimeout(MaxTokenTimeout+time.Second))
	assert.Error(t, err)

	_, err = NewClient(EndpointJapan, WithTokenTimeout(time.Hour))
	assert.NoError(t, err)
}

func TestNewClient_InitialState(t *testing.T) {
	client, err := NewClient(EndpointJapan)
	require.NoError(t, err)

	assert.Equal(t, EndpointJapan, client.Endpoint())
	assert.False(t, client.IsAuthenticated())
	assert.Empty(t, client.OperatorID())
	_, ok := client.Credentials()
	assert.False(t, ok)
}

func TestClient_RequiresAuthentication(t *testing.T) {
	client, _ := newMockClient(t) // no Send expected
	ctx := context.Background()

	_, err := client.ListSubscribers(ctx, nil)
	assert.ErrorIs(t, err, ErrNotAuthenticated)

	_, err = client.GetSubscriber(ctx, "001050910800000")
	assert.ErrorIs(t, err, ErrNotAuthenticated)

	err = client.RegisterSubscriber(ctx, &SubscriberRegistration{IMSI: "001050910800000"})
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestClient_AuthThenAttachesHeaders(t *testing.T) {
	client, tr := newMockClient(t)
	ctx := context.Background()

	gomock.InOrder(
		tr.EXPECT().Send(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, req *api.Request) (*api.Response, error) {
			assert.Equal(t, http.MethodPost, req.Method)
			assert.Equal(t, "https://g.api.soracom.io/v1/auth", req.URL)
			assert.Empty(t, req.Header.Get(api.HeaderAPIKey))
			assert.Empty(t, req.Header.Get(api.HeaderToken))
			assert.JSONEq(t, `{"authKeyId":"keyId-1","authKey":"secret-1","tokenTimeoutSeconds":60}`, string(req.Body))
			return reply(http.StatusOK, authOKBody), nil
		}),
		tr.EXPECT().Send(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, req *api.Request) (*api.Response, error) {
			assert.Equal(t, http.MethodGet, req.Method)
			assert.Equal(t, "https://g.api.soracom.io/v1/subscribers", req.URL)
			assert.Equal(t, "api-abc", req.Header.Get(api.HeaderAPIKey))
			assert.Equal(t, "tok-xyz", req.Header.Get(api.HeaderToken))
			return reply(http.StatusOK, `[]`), nil
		}),
	)

	require.NoError(t, client.Auth(ctx, "keyId-1", "secret-1"))
	assert.True(t, client.IsAuthenticated())
	assert.Equal(t, "OP0012345678", client.OperatorID())

	subs, err := client.ListSubscribers(ctx, nil)
	require.NoError(t, err)
	assert.NotNil(t, subs)
	assert.Empty(t, subs)
}

func TestClient_AuthLogsMaskedKey(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	client, tr := newMockClient(t, WithLogger(zap.New(core)))
	tr.EXPECT().Send(gomock.Any(), gomock.Any()).Return(reply(http.StatusOK, authOKBody), nil)

	require.NoError(t, client.Auth(context.Background(), "k", "s"))

	entries := logs.FilterMessage("authenticated").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "OP0012345678", fields["operator_id"])
	assert.Equal(t, EndpointGlobal, fields["endpoint"])
	assert.NotContains(t, fields["api_key"], "api-abc")
}

func TestClient_AuthRejectedLogsWarn(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	client, tr := newMockClient(t, WithLogger(zap.New(core)))
	tr.EXPECT().Send(gomock.Any(), gomock.Any()).Return(reply(http.StatusForbidden, "denied"), nil)

	require.Error(t, client.Auth(context.Background(), "k", "s"))

	entries := logs.FilterMessage("authentication rejected").All()
	require.Len(t, entries, 1)
	assert.Equal(t, int64(http.StatusForbidden), entries[0].ContextMap()["http_status"])
	assert.Equal(t, "denied", entries[0].ContextMap()["body"])
}

func TestClient_AuthUsesTokenTimeout(t *testing.T) {
	client, tr := newMockClient(t, WithTokenTimeout(2*time.Hour))

	tr.EXPECT().Send(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, req *api.Request) (*api.Response, error) {
		var body api.AuthRequest
		require.NoError(t, json.Unmarshal(req.Body, &body))
		assert.Equal(t, 7200, body.TokenTimeoutSeconds)
		return reply(http.StatusOK, authOKBody), nil
	})

	require.NoError(t, client.Auth(context.Background(), "k", "s"))
}

func TestClient_AuthRejected(t *testing.T) {
	client, tr := newMockClient(t)
	body := `{"code":"AUM0001","message":"Invalid credentials"}`
	tr.EXPECT().Send(gomock.Any(), gomock.Any()).Return(reply(http.StatusUnauthorized, body), nil)

	err := client.Auth(context.Background(), "bad", "bad")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.True(t, IsKind(err, KindHTTP))

	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, body, apiErr.Body)

	assert.False(t, client.IsAuthenticated())
	assert.Empty(t, client.OperatorID())
}

func TestClient_FailedReauthKeepsCredentials(t *testing.T) {
	client, tr := newMockClient(t)
	gomock.InOrder(
		tr.EXPECT().Send(gomock.Any(), gomock.Any()).Return(reply(http.StatusOK, authOKBody), nil),
		tr.EXPECT().Send(gomock.Any(), gomock.Any()).Return(reply(http.StatusInternalServerError, "oops"), nil),
	)

	ctx := context.Background()
	require.NoError(t, client.Auth(ctx, "k", "s"))
	require.Error(t, client.Auth(ctx, "k", "s"))

	creds, ok := client.Credentials()
	assert.True(t, ok)
	assert.Equal(t, "api-abc", creds.APIKey)
	assert.Equal(t, "OP0012345678", client.OperatorID())
}

func TestClient_AuthTransportError(t *testing.T) {
	client, tr := newMockClient(t)
	tr.EXPECT().Send(gomock.Any(), gomock.Any()).Return(nil, errors.New("connection refused"))

	err := client.Auth(context.Background(), "k", "s")
	assert.True(t, IsKind(err, KindTransport))
	assert.False(t, client.IsAuthenticated())
}

func TestClient_AuthToken(t *testing.T) {
	client, tr := newMockClient(t)
	tr.EXPECT().Send(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, req *api.Request) (*api.Response, error) {
		assert.Equal(t, "injected-key", req.Header.Get(api.HeaderAPIKey))
		assert.Equal(t, "injected-token", req.Header.Get(api.HeaderToken))
		return reply(http.StatusOK, `[]`), nil
	})

	client.AuthToken("injected-key", "injected-token")
	assert.True(t, client.IsAuthenticated())
	assert.Empty(t, client.OperatorID())

	_, err := client.ListSubscribers(context.Background(), nil)
	require.NoError(t, err)
}

func TestClient_ListSubscribers(t *testing.T) {
	client := newServerClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/subscribers", r.URL.Path)
		assert.Equal(t, "limit=10&tag_name=tagA&tag_value=valueA&tag_value_match_mode=exact", r.URL.RawQuery)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.Write([]byte(activeSubscribersJSON))
	})
	client.AuthToken("k", "t")

	subs, err := client.ListSubscribers(context.Background(), &ListSubscribersOptions{
		TagName:           "tagA",
		TagValue:          "valueA",
		TagValueMatchMode: TagValueMatchExact,
		Limit:             10,
	})
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "001050910800000", subs[0].IMSI)
	assert.Equal(t, Tags{"tagA": "valueA"}, subs[0].Tags)
}

func TestClient_ListSubscribersDecodeError(t *testing.T) {
	client, tr := newMockClient(t)
	tr.EXPECT().Send(gomock.Any(), gomock.Any()).Return(reply(http.StatusOK, `{"not":"a list"}`), nil)
	client.AuthToken("k", "t")

	_, err := client.ListSubscribers(context.Background(), nil)
	assert.True(t, IsKind(err, KindDecode))
}

func TestClient_ListSubscribersMissingCreatedAt(t *testing.T) {
	client, tr := newMockClient(t)
	tr.EXPECT().Send(gomock.Any(), gomock.Any()).Return(reply(http.StatusOK, `[{"imsi":"1"}]`), nil)
	client.AuthToken("k", "t")

	_, err := client.ListSubscribers(context.Background(), nil)
	assert.True(t, IsKind(err, KindDecode))
}

func TestClient_GetSubscriber(t *testing.T) {
	client, tr := newMockClient(t)
	tr.EXPECT().Send(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, req *api.Request) (*api.Response, error) {
		assert.Equal(t, http.MethodGet, req.Method)
		assert.Equal(t, "https://g.api.soracom.io/v1/subscribers/001050910800000", req.URL)
		return reply(http.StatusOK, `{"imsi":"001050910800000","status":"active","createdAt":1586584405503,"tags":{}}`), nil
	})
	client.AuthToken("k", "t")

	sub, err := client.GetSubscriber(context.Background(), "001050910800000")
	require.NoError(t, err)
	assert.Equal(t, StatusActive, sub.Status)
}

func TestClient_GetSubscriberNotFound(t *testing.T) {
	client, tr := newMockClient(t)
	body := `{"code":"SEM0004","message":"No such subscriber"}`
	tr.EXPECT().Send(gomock.Any(), gomock.Any()).Return(reply(http.StatusNotFound, body), nil)
	client.AuthToken("k", "t")

	_, err := client.GetSubscriber(context.Background(), "unknown")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, http.StatusNotFound, StatusCode(err))
}

func TestClient_GetSubscriberEscapesIMSI(t *testing.T) {
	client := newServerClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/subscribers/a%2Fb", r.URL.EscapedPath())
		w.WriteHeader(http.StatusNotFound)
	})
	client.AuthToken("k", "t")

	_, err := client.GetSubscriber(context.Background(), "a/b")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClient_RegisterSubscriber(t *testing.T) {
	client, tr := newMockClient(t)
	tr.EXPECT().Send(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, req *api.Request) (*api.Response, error) {
		assert.Equal(t, http.MethodPost, req.Method)
		assert.Equal(t, "https://g.api.soracom.io/v1/subscribers/001010000000001/register", req.URL)
		assert.JSONEq(t, `{"registrationSecret":"rs","groupId":"g-1","tags":{"name":"dev"}}`, string(req.Body))
		return reply(http.StatusOK, `{"imsi":"001010000000001"}`), nil
	})
	client.AuthToken("k", "t")

	err := client.RegisterSubscriber(context.Background(), &SubscriberRegistration{
		IMSI:               "001010000000001",
		RegistrationSecret: "rs",
		SerialNumber:       "ignored",
		GroupID:            "g-1",
		Tags:               Tags{"name": "dev"},
	})
	require.NoError(t, err)
}

func TestClient_EmptyIMSIRejectedBeforeRequest(t *testing.T) {
	client, _ := newMockClient(t) // no Send expected
	client.AuthToken("k", "t")
	ctx := context.Background()

	_, err := client.GetSubscriber(ctx, "")
	assert.ErrorIs(t, err, ErrMissingIMSI)

	err = client.RegisterSubscriber(ctx, &SubscriberRegistration{RegistrationSecret: "rs"})
	assert.ErrorIs(t, err, ErrMissingIMSI)

	err = client.RegisterSubscriber(ctx, nil)
	assert.Error(t, err)
}

func TestClient_RegisterSubscriberRejected(t *testing.T) {
	client, tr := newMockClient(t)
	tr.EXPECT().Send(gomock.Any(), gomock.Any()).Return(reply(http.StatusBadRequest, `{"code":"SEM0005"}`), nil)
	client.AuthToken("k", "t")

	err := client.RegisterSubscriber(context.Background(), &SubscriberRegistration{IMSI: "1", RegistrationSecret: "wrong"})
	assert.Equal(t, http.StatusBadRequest, StatusCode(err))
}

func TestClient_ConcurrentRequests(t *testing.T) {
	client, tr := newMockClient(t)
	tr.EXPECT().Send(gomock.Any(), gomock.Any()).Return(reply(http.StatusOK, readySubscribersJSON), nil).Times(20)
	client.AuthToken("k", "t")

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := client.ListSubscribers(context.Background(), nil)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
}
