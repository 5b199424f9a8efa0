//go:build pact
// +build pact

package consumer_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	pacttest "github.com/libreria/bookstore-api/test/pact"

	pactconsumer "github.com/pact-foundation/pact-go/v2/consumer"
	pactlog "github.com/pact-foundation/pact-go/v2/log"
	"github.com/pact-foundation/pact-go/v2/matchers"
	"github.com/stretchr/testify/require"
)

type bookPayload struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	AuthorID string   `json:"authorId"`
	Price    float64  `json:"price"`
	Stock    int      `json:"stock"`
	Genres   []string `json:"genres,omitempty"`
}

type loginRequestPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponsePayload struct {
	Token string `json:"token"`
	User  struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
		Role  string `json:"role"`
	} `json:"user"`
}

type problemDetail struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail"`
}

type apiError struct {
	status int
	title  string
	detail string
}

func (e apiError) Error() string {
	msg := e.title
	if msg == "" {
		msg = "api error"
	}
	if e.detail != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.detail)
	}
	return fmt.Sprintf("%s (status %d)", msg, e.status)
}

func (e apiError) Status() int {
	return e.status
}

func TestStorefrontContract(t *testing.T) {
	t.Helper()
	pactlog.SetLogLevel("INFO")

	pact, err := pactconsumer.NewV2Pact(pactconsumer.MockHTTPProviderConfig{
		Consumer: pacttest.ConsumerName,
		Provider: pacttest.ProviderName,
		PactDir:  pacttest.PactDir(t),
		LogDir:   pacttest.LogDir(t),
	})
	require.NoError(t, err)

	exampleBook := bookPayload{
		ID:       pacttest.ExistingBookID,
		Title:    "Dune",
		AuthorID: pacttest.ExistingAuthorID,
		Price:    10.0,
		Stock:    5,
		Genres:   []string{"science-fiction"},
	}
	uuidPattern := "[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}"
	bookBodyMatcher := matchers.Map{
		"id":       matchers.Term(exampleBook.ID, uuidPattern),
		"title":    matchers.Like(exampleBook.Title),
		"authorId": matchers.Term(exampleBook.AuthorID, uuidPattern),
		"price":    matchers.Like(exampleBook.Price),
		"stock":    matchers.Like(exampleBook.Stock),
		"genres":   matchers.ArrayMinLike(exampleBook.Genres[0], 1),
	}
	jsonContentType := matchers.Regex("application/json; charset=utf-8", "application\\/json(?:;\\s?charset=utf-8)?")

	pact.AddInteraction().
		Given(pacttest.StateCatalogSeeded).
		UponReceiving("a request to list the catalog").
		WithRequest("GET", "/api/books").
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.EachLike(bookBodyMatcher, 1))
		})

	pact.AddInteraction().
		Given(pacttest.StateBookExists).
		UponReceiving("a request to fetch an existing book").
		WithRequest("GET", "/api/books/"+pacttest.ExistingBookID).
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(bookBodyMatcher)
		})

	pact.AddInteraction().
		Given(pacttest.StateBookMissing).
		UponReceiving("a request for a missing book").
		WithRequest("GET", "/api/books/"+pacttest.MissingBookID).
		WillRespondWith(http.StatusNotFound, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", matchers.S("application/problem+json"))
			b.JSONBody(matchers.Map{
				"type":   matchers.S("/problems/not-found"),
				"title":  matchers.S("Resource Not Found"),
				"status": matchers.Like(http.StatusNotFound),
			})
		})

	pact.AddInteraction().
		Given(pacttest.StateReaderExists).
		UponReceiving("a login request from a registered reader").
		WithRequest("POST", "/api/auth/login", func(b *pactconsumer.V2RequestBuilder) {
			b.Header("Content-Type", matchers.S("application/json"))
			b.JSONBody(matchers.Map{
				"email":    matchers.S(pacttest.ReaderEmail),
				"password": matchers.S(pacttest.ReaderPassword),
			})
		}).
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.Map{
				"token": matchers.Like("jwt-token"),
				"user": matchers.Map{
					"id":    matchers.Term(exampleBook.AuthorID, uuidPattern),
					"name":  matchers.Like(pacttest.ReaderName),
					"email": matchers.S(pacttest.ReaderEmail),
					"role":  matchers.Term("user", "user|admin"),
				},
			})
		})

	err = pact.ExecuteTest(t, func(config pactconsumer.MockServerConfig) error {
		client := newBookstoreClient(config)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		books, err := client.ListBooks(ctx)
		if err != nil {
			return fmt.Errorf("list books: %w", err)
		}
		if len(books) == 0 {
			return fmt.Errorf("expected at least one book in the catalog")
		}

		fetched, err := client.GetBook(ctx, pacttest.ExistingBookID)
		if err != nil {
			return fmt.Errorf("get book: %w", err)
		}
		if fetched == nil || fetched.ID != pacttest.ExistingBookID {
			return fmt.Errorf("expected book id %s, got %+v", pacttest.ExistingBookID, fetched)
		}

		if _, err := client.GetBook(ctx, pacttest.MissingBookID); err == nil {
			return fmt.Errorf("expected 404 for book %s", pacttest.MissingBookID)
		} else if apiErr, ok := err.(apiError); ok && apiErr.Status() != http.StatusNotFound {
			return fmt.Errorf("expected 404, got %d", apiErr.Status())
		}

		login, err := client.Login(ctx, pacttest.ReaderEmail, pacttest.ReaderPassword)
		if err != nil {
			return fmt.Errorf("login: %w", err)
		}
		if login.Token == "" {
			return fmt.Errorf("expected a token in the login response")
		}
		if login.User.Email != pacttest.ReaderEmail {
			return fmt.Errorf("expected user email %s, got %s", pacttest.ReaderEmail, login.User.Email)
		}

		return nil
	})
	require.NoError(t, err)
}

type bookstoreClient struct {
	baseURL    string
	httpClient *http.Client
}

func newBookstoreClient(config pactconsumer.MockServerConfig) *bookstoreClient {
	host := config.Host
	if host == "" {
		host = "localhost"
	}
	transport := &http.Transport{TLSClientConfig: config.TLSConfig}
	client := &http.Client{Transport: transport, Timeout: 10 * time.Second}
	return &bookstoreClient{
		baseURL:    fmt.Sprintf("http://%s:%d", host, config.Port),
		httpClient: client,
	}
}

func (c *bookstoreClient) ListBooks(ctx context.Context) ([]bookPayload, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/books", nil)
	if err != nil {
		return nil, err
	}
	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode >= http.StatusBadRequest {
		return nil, decodeAPIError(res)
	}

	var payload []bookPayload
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return nil, err
	}
	return payload, nil
}

func (c *bookstoreClient) GetBook(ctx context.Context, id string) (*bookPayload, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/books/"+id, nil)
	if err != nil {
		return nil, err
	}
	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode >= http.StatusBadRequest {
		return nil, decodeAPIError(res)
	}

	var payload bookPayload
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

func (c *bookstoreClient) Login(ctx context.Context, email, password string) (*loginResponsePayload, error) {
	body, err := json.Marshal(loginRequestPayload{Email: email, Password: password})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/auth/login", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode >= http.StatusBadRequest {
		return nil, decodeAPIError(res)
	}

	var payload loginResponsePayload
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

func decodeAPIError(res *http.Response) error {
	var problem problemDetail
	_ = json.NewDecoder(res.Body).Decode(&problem)
	status := problem.Status
	if status == 0 {
		status = res.StatusCode
	}
	return apiError{
		status: status,
		title:  problem.Title,
		detail: problem.Detail,
	}
}
