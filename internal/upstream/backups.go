package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
)

// ListBackups enumerates database backup files for one env/platform/date.
// The server answers either a bare array or a {files,totalCount} envelope;
// both are accepted.
func (c *Client) ListBackups(ctx context.Context, token, env, platform, date string) ([]BackupFile, error) {
	values := url.Values{}
	values.Set("env", env)
	values.Set("platform", platform)
	values.Set("date", date)

	req, err := c.newRequest(ctx, "GET", "/api/db-backups/list"+queryString(values), token, nil)
	if err != nil {
		return nil, err
	}
	body, _, err := c.do("db-backups/list", req)
	if err != nil {
		return nil, err
	}

	var files []BackupFile
	if err := json.Unmarshal(body, &files); err == nil {
		return files, nil
	}
	var envelope struct {
		Files []BackupFile `json:"files"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("upstream db-backups/list: decode response: %w", err)
	}
	return envelope.Files, nil
}

// DownloadBackup fetches one backup file as an opaque blob.
func (c *Client) DownloadBackup(ctx context.Context, token, env, platform, date, fileName string) (*Blob, error) {
	fileName = strings.TrimSpace(fileName)
	if fileName == "" {
		return nil, fmt.Errorf("upstream db-backups/download: file name is required")
	}

	values := url.Values{}
	values.Set("env", env)
	values.Set("platform", platform)
	values.Set("date", date)
	values.Set("file_name", fileName)

	return c.getBlob(ctx, "db-backups/download", "/api/db-backups/download"+queryString(values), token, fileName)
}
