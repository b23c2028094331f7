package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/onboard-hub/onboard/internal/catalog"
	"github.com/onboard-hub/onboard/internal/domain"
)

// apiClient talks to the onboarding server's JSON API.
type apiClient struct {
	baseURL string
	http    *http.Client
}

func newAPIClient(baseURL string) *apiClient {
	return &apiClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 5 * time.Minute},
	}
}

type apiError struct {
	Status  int
	Message string
}

func (e *apiError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("server returned %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("server returned %d", e.Status)
}

func (c *apiClient) do(method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var errBody struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&errBody)
		return &apiError{Status: resp.StatusCode, Message: errBody.Error}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *apiClient) CreateSession(name string, role domain.Role) (*domain.Session, error) {
	var session domain.Session
	err := c.do(http.MethodPost, "/api/sessions", map[string]string{
		"name": name,
		"role": string(role),
	}, &session)
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (c *apiClient) GetSession(id string) (*domain.Session, error) {
	var session domain.Session
	if err := c.do(http.MethodGet, "/api/sessions/"+id, nil, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (c *apiClient) DeleteSession(id string) error {
	return c.do(http.MethodDelete, "/api/sessions/"+id, nil, nil)
}

func (c *apiClient) UpdateProgress(sessionID, moduleID, sectionID, status string) (*domain.Progress, error) {
	body := map[string]string{
		"sessionId": sessionID,
		"moduleId":  moduleID,
	}
	if sectionID != "" {
		body["sectionId"] = sectionID
	}
	if status != "" {
		body["status"] = status
	}
	var rec domain.Progress
	if err := c.do(http.MethodPost, "/api/progress", body, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (c *apiClient) SubmitQuiz(sessionID, moduleID, quizID string, answers []int) (*domain.Progress, error) {
	var rec domain.Progress
	err := c.do(http.MethodPost, "/api/quiz", map[string]interface{}{
		"sessionId": sessionID,
		"moduleId":  moduleID,
		"quizId":    quizID,
		"answers":   answers,
	}, &rec)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (c *apiClient) ListModules(role string) ([]catalog.Module, error) {
	path := "/api/modules"
	if role != "" {
		path += "?role=" + role
	}
	var modules []catalog.Module
	if err := c.do(http.MethodGet, path, nil, &modules); err != nil {
		return nil, err
	}
	return modules, nil
}

func (c *apiClient) GetModule(id string) (*catalog.Module, error) {
	var module catalog.Module
	if err := c.do(http.MethodGet, "/api/modules/"+id, nil, &module); err != nil {
		return nil, err
	}
	return &module, nil
}

func (c *apiClient) GetStats(sessionID string) (*catalog.Stats, error) {
	var stats catalog.Stats
	if err := c.do(http.MethodGet, "/api/stats/"+sessionID, nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (c *apiClient) Chat(sessionID, message string) (string, error) {
	var resp struct {
		Message string `json:"message"`
	}
	err := c.do(http.MethodPost, "/api/chat", map[string]interface{}{
		"message": message,
		"context": map[string]string{"sessionId": sessionID},
	}, &resp)
	if err != nil {
		return "", err
	}
	return resp.Message, nil
}
