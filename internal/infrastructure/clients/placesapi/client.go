package placesapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/placeradar/backend/internal/domain/entities"
	"github.com/placeradar/backend/internal/domain/providers"
	"github.com/placeradar/backend/internal/domain/repositories"
	apperrors "github.com/placeradar/backend/pkg/errors"
	"github.com/placeradar/backend/pkg/retry"
)

const defaultTimeout = 10 * time.Second

// Client is the HTTP client over the upstream places backend. It implements
// the discovery, engagement, review and place repositories, and owns all
// response-shape normalization: nothing past this boundary sees the backend's
// array-vs-envelope ambiguity.
type Client struct {
	baseURL    string
	httpClient *http.Client
	auth       providers.AuthGateway
	retryCfg   retry.Config
}

var (
	_ repositories.DiscoveryRepository  = (*Client)(nil)
	_ repositories.EngagementRepository = (*Client)(nil)
	_ repositories.ReviewRepository     = (*Client)(nil)
	_ repositories.PlaceRepository      = (*Client)(nil)
)

// NewClient creates a new places API client
func NewClient(baseURL string, timeout time.Duration, auth providers.AuthGateway) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		auth:     auth,
		retryCfg: retry.SingleConfig(),
	}
}

// Trending implements the trending discovery source
func (c *Client) Trending(ctx context.Context, loc entities.Location, limit int) ([]entities.Place, error) {
	return c.discover(ctx, "/api/discover/trending", loc, limit)
}

// PopularThisWeek implements the popular-this-week discovery source
func (c *Client) PopularThisWeek(ctx context.Context, loc entities.Location, limit int) ([]entities.Place, error) {
	return c.discover(ctx, "/api/discover/popular-this-week", loc, limit)
}

// HiddenGems implements the hidden-gems discovery source
func (c *Client) HiddenGems(ctx context.Context, loc entities.Location, limit int) ([]entities.Place, error) {
	return c.discover(ctx, "/api/discover/hidden-gems", loc, limit)
}

// NearbyActive implements the nearby-active discovery source. Its secondary
// fallback to a distance-sorted search belongs to the aggregator, not here.
func (c *Client) NearbyActive(ctx context.Context, loc entities.Location, limit int) ([]entities.Place, error) {
	return c.discover(ctx, "/api/discover/nearby-active", loc, limit)
}

func (c *Client) discover(ctx context.Context, path string, loc entities.Location, limit int) ([]entities.Place, error) {
	query := url.Values{}
	query.Set("lat", formatFloat(loc.Latitude))
	query.Set("lng", formatFloat(loc.Longitude))
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}

	var raw json.RawMessage
	if err := c.getWithRetry(ctx, path+"?"+query.Encode(), &raw); err != nil {
		return nil, err
	}
	return NormalizePlaces(raw)
}

// Search implements the generic place search used as the ultimate fallback
// and as the nearby-active secondary strategy.
func (c *Client) Search(ctx context.Context, params repositories.SearchParams) ([]entities.Place, error) {
	query := url.Values{}
	query.Set("lat", formatFloat(params.Latitude))
	query.Set("lng", formatFloat(params.Longitude))
	if params.CategoryID != nil {
		query.Set("categoryId", strconv.FormatInt(*params.CategoryID, 10))
	}
	if params.MaxDistanceKm > 0 {
		query.Set("maxDistanceKm", formatFloat(params.MaxDistanceKm))
	}
	if params.Sort != "" {
		query.Set("sort", params.Sort)
	}
	query.Set("page", strconv.Itoa(params.Page))
	if params.Size > 0 {
		query.Set("size", strconv.Itoa(params.Size))
	}

	var raw json.RawMessage
	if err := c.getWithRetry(ctx, "/api/places/search?"+query.Encode(), &raw); err != nil {
		return nil, err
	}
	return NormalizePlaces(raw)
}

// GetByID fetches a single place
func (c *Client) GetByID(ctx context.Context, id int64) (*entities.Place, error) {
	var place entities.Place
	if err := c.getWithRetry(ctx, fmt.Sprintf("/api/places/%d", id), &place); err != nil {
		return nil, err
	}
	return &place, nil
}

// Favorites returns the caller's favorited places
func (c *Client) Favorites(ctx context.Context) ([]entities.Place, error) {
	var raw json.RawMessage
	if err := c.doJSON(ctx, http.MethodGet, "/api/user/favorites", nil, &raw); err != nil {
		return nil, err
	}
	return NormalizePlaces(raw)
}

// Visited returns the caller's visited places
func (c *Client) Visited(ctx context.Context) ([]entities.Place, error) {
	var raw json.RawMessage
	if err := c.doJSON(ctx, http.MethodGet, "/api/user/visited", nil, &raw); err != nil {
		return nil, err
	}
	return NormalizePlaces(raw)
}

// AddFavorite marks a place as favorited
func (c *Client) AddFavorite(ctx context.Context, placeID int64) error {
	return c.doJSON(ctx, http.MethodPost, fmt.Sprintf("/api/places/%d/favorite", placeID), nil, nil)
}

// RemoveFavorite removes a place from favorites
func (c *Client) RemoveFavorite(ctx context.Context, placeID int64) error {
	return c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/api/places/%d/favorite", placeID), nil, nil)
}

// AddVisited marks a place as visited
func (c *Client) AddVisited(ctx context.Context, placeID int64) error {
	return c.doJSON(ctx, http.MethodPost, fmt.Sprintf("/api/places/%d/visited", placeID), nil, nil)
}

// RemoveVisited removes a place from the visited list
func (c *Client) RemoveVisited(ctx context.Context, placeID int64) error {
	return c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/api/places/%d/visited", placeID), nil, nil)
}

// UserReview fetches the caller's review of a place. A 404 means no review
// exists yet and is reported as (nil, nil), not as an error.
func (c *Client) UserReview(ctx context.Context, placeID int64) (*entities.Review, error) {
	var review entities.Review
	err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/api/places/%d/reviews/me", placeID), nil, &review)
	if err != nil {
		if apperrors.IsType(err, apperrors.ErrorTypeNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &review, nil
}

// PlaceReviews fetches a page of a place's reviews
func (c *Client) PlaceReviews(ctx context.Context, placeID int64, page, size int) ([]entities.Review, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	if size > 0 {
		query.Set("size", strconv.Itoa(size))
	}

	var raw json.RawMessage
	endpoint := fmt.Sprintf("/api/places/%d/reviews?%s", placeID, query.Encode())
	if err := c.getWithRetry(ctx, endpoint, &raw); err != nil {
		return nil, err
	}
	return NormalizeReviews(raw)
}

type reviewPayload struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// CreateReview submits a new review. The backend answers 409 when the caller
// has already reviewed the place.
func (c *Client) CreateReview(ctx context.Context, placeID int64, rating int, comment string) (*entities.Review, error) {
	var review entities.Review
	payload := reviewPayload{Rating: rating, Comment: comment}
	endpoint := fmt.Sprintf("/api/places/%d/reviews", placeID)
	if err := c.doJSON(ctx, http.MethodPost, endpoint, payload, &review); err != nil {
		return nil, err
	}
	return &review, nil
}

// UpdateReview updates the caller's existing review
func (c *Client) UpdateReview(ctx context.Context, placeID, reviewID int64, rating int, comment string) (*entities.Review, error) {
	var review entities.Review
	payload := reviewPayload{Rating: rating, Comment: comment}
	endpoint := fmt.Sprintf("/api/places/%d/reviews/%d", placeID, reviewID)
	if err := c.doJSON(ctx, http.MethodPut, endpoint, payload, &review); err != nil {
		return nil, err
	}
	return &review, nil
}

// DeleteReview deletes the caller's review
func (c *Client) DeleteReview(ctx context.Context, placeID, reviewID int64) error {
	endpoint := fmt.Sprintf("/api/places/%d/reviews/%d", placeID, reviewID)
	return c.doJSON(ctx, http.MethodDelete, endpoint, nil, nil)
}

// getWithRetry performs a GET with the single-retry budget. Only transport
// failures and 5xx answers are retried; mutations never go through here.
func (c *Client) getWithRetry(ctx context.Context, path string, out interface{}) error {
	return retry.DoIf(ctx, c.retryCfg, retryable, func() error {
		return c.doJSON(ctx, http.MethodGet, path, nil, out)
	})
}

func retryable(err error) bool {
	switch apperrors.Type(err) {
	case apperrors.ErrorTypeUnavailable, apperrors.ErrorTypeExternal:
		return true
	}
	return false
}

func (c *Client) doJSON(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return apperrors.NewInternalError("failed to encode request body", err)
		}
		reader = bytes.NewReader(encoded)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return apperrors.NewInternalError("failed to build request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.auth != nil {
		if token, ok := c.auth.Token(ctx); ok {
			httpReq.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return apperrors.NewUnavailableError("places backend unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if resp.StatusCode == http.StatusUnauthorized && c.auth != nil {
			c.auth.HandleExpiry(ctx)
		}
		return apperrors.FromStatus(resp.StatusCode, readErrorMessage(resp.Body))
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperrors.NewExternalError("failed to decode response", err)
	}
	return nil
}

// readErrorMessage pulls the backend's message field out of an error body
func readErrorMessage(body io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil {
		return ""
	}
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return ""
	}
	return payload.Message
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
