// Package client is the HTTP implementation of the content-service
// contract the progression engine runs against.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/avesguide/academy_api/activity"
	"github.com/avesguide/academy_api/dto"
	"github.com/avesguide/academy_api/shared"
)

type Client struct {
	httpClient *http.Client
	baseURL    string
	userID     string
}

// New returns a client acting as the given learner. Every request carries
// the identity header the service resolves enrollments from.
func New(baseURL, userID string) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		baseURL: baseURL,
		userID:  userID,
	}
}

func (c *Client) GetCourse(ctx context.Context, courseID string) (*dto.CourseResponse, error) {
	var course dto.CourseResponse
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/v1/courses/%s", courseID), nil, &course); err != nil {
		return nil, err
	}
	return &course, nil
}

func (c *Client) RecordAttempt(ctx context.Context, activityID string, correct bool, points int) error {
	req := dto.RecordAttemptRequest{
		ActivityID: activityID,
		Correct:    correct,
		Points:     points,
	}
	return c.do(ctx, http.MethodPost, "/api/v1/attempts", req, nil)
}

func (c *Client) CompleteActivity(ctx context.Context, activityID string, response activity.Response) (*dto.CompleteActivityResponse, error) {
	raw, err := shared.MarshalJSON(response)
	if err != nil {
		return nil, err
	}

	req := dto.CompleteActivityRequest{
		ActivityID: activityID,
		Response:   raw,
	}

	var resp dto.CompleteActivityResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/activities/complete", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) CompleteLesson(ctx context.Context, lessonID string) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/api/v1/lessons/%s/complete", lessonID), nil, nil)
}

// do performs one round trip. Successful envelopes are unwrapped into out;
// error envelopes are rebuilt into AppError so sentinel checks carry across
// the wire.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		raw, err := shared.MarshalJSON(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(shared.UserIDHeader, c.userID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode >= 400 {
		return c.decodeError(resp.StatusCode, raw)
	}

	if out == nil {
		return nil
	}

	var envelope struct {
		Message string          `json:"message"`
		Data    json.RawMessage `json:"data"`
	}
	if err := shared.UnmarshalJSON(raw, &envelope); err != nil {
		return err
	}
	return shared.UnmarshalJSON(envelope.Data, out)
}

func (c *Client) decodeError(statusCode int, raw []byte) error {
	var parsed struct {
		Code    string      `json:"code"`
		Message string      `json:"message"`
		Data    interface{} `json:"data"`
	}
	if err := shared.UnmarshalJSON(raw, &parsed); err != nil || parsed.Code == "" {
		log.WithField("status", statusCode).Debug("Unstructured error response")
		return shared.NewAppError(statusCode, "http_error", fmt.Sprintf("request failed with status %d", statusCode))
	}

	if parsed.Code == shared.CodeActivitiesIncomplete {
		return shared.ActivitiesIncompleteError(asStringSlice(parsed.Data))
	}

	appErr := shared.NewAppError(statusCode, parsed.Code, parsed.Message)
	appErr.Data = parsed.Data
	return appErr
}

func asStringSlice(v interface{}) []string {
	items, ok := v.([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
