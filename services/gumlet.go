package services

import (
	"errors"
	"fmt"
	"lms/config"
	"log"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

var (
	// ErrNotConfigured is returned before any network call when the API key is missing
	ErrNotConfigured = errors.New("gumlet API key is not configured")
	// ErrAssetNotFound is returned when the host does not know the asset or playlist
	ErrAssetNotFound = errors.New("asset not found on gumlet")
)

// GumletAsset is a single asset as returned by GET /video/assets/{id}
type GumletAsset struct {
	AssetID string `json:"asset_id"`
	Status  string `json:"status"`
	Input   struct {
		Title    string  `json:"title"`
		Duration float64 `json:"duration"`
	} `json:"input"`
}

// PlaylistAsset is one entry of a playlist's asset_list
type PlaylistAsset struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Duration    float64 `json:"duration"`
}

// PlaylistAssets is the response of GET /video/playlist/{id}/assets
type PlaylistAssets struct {
	AssetList []PlaylistAsset `json:"asset_list"`
}

// VideoHost is the surface of the external video provider used by controllers.
// Tests swap it for a stub.
type VideoHost interface {
	GetAsset(assetID string) (*GumletAsset, error)
	GetPlaylistAssets(playlistID string) (*PlaylistAssets, error)
}

// Host is the global video host client, set by InitGumlet
var Host VideoHost

// InitGumlet builds the Gumlet client from AppConfig
func InitGumlet() {
	Host = NewGumletClient()
}

// GumletClient talks to the Gumlet video API
type GumletClient struct {
	client       *resty.Client
	baseURL      string
	apiKey       string
	collectionID string
}

func NewGumletClient() *GumletClient {
	return &GumletClient{
		client:       resty.New().SetTimeout(time.Duration(config.AppConfig.GumletTimeoutSecs) * time.Second),
		baseURL:      strings.TrimRight(config.AppConfig.GumletApiURL, "/"),
		apiKey:       config.AppConfig.GumletApiKey,
		collectionID: config.AppConfig.GumletCollectionID,
	}
}

// get performs an authenticated GET against the Gumlet API
func (g *GumletClient) get(endpoint string, query map[string]string, out interface{}) error {
	if g.apiKey == "" {
		return ErrNotConfigured
	}

	resp, err := g.client.R().
		SetHeader("Authorization", "Bearer "+g.apiKey).
		SetHeader("Accept", "application/json").
		SetQueryParams(query).
		SetResult(out).
		Get(g.baseURL + endpoint)
	if err != nil {
		log.Printf("Gumlet API error: %s: %v", endpoint, err)
		return fmt.Errorf("failed to communicate with Gumlet API: %w", err)
	}

	if resp.StatusCode() == 404 {
		return ErrAssetNotFound
	}
	if resp.IsError() {
		log.Printf("Gumlet API error: %s returned %s: %s", endpoint, resp.Status(), resp.String())
		return fmt.Errorf("gumlet API returned %s", resp.Status())
	}

	return nil
}

// GetAsset fetches a single asset's metadata
func (g *GumletClient) GetAsset(assetID string) (*GumletAsset, error) {
	var asset GumletAsset
	if err := g.get("/video/assets/"+assetID, nil, &asset); err != nil {
		return nil, err
	}
	return &asset, nil
}

// GetPlaylistAssets fetches the asset list of a playlist
func (g *GumletClient) GetPlaylistAssets(playlistID string) (*PlaylistAssets, error) {
	var assets PlaylistAssets
	if err := g.get("/video/playlist/"+playlistID+"/assets", nil, &assets); err != nil {
		return nil, err
	}
	return &assets, nil
}

// Playlist is one playlist of the configured collection
type Playlist struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// PlaylistList is the response of GET /video/playlist
type PlaylistList struct {
	PlaylistList []Playlist `json:"playlist_list"`
}

// GetAllPlaylists lists the playlists of the configured collection
func (g *GumletClient) GetAllPlaylists() (*PlaylistList, error) {
	var playlists PlaylistList
	query := map[string]string{"collection_id": g.collectionID}
	if err := g.get("/video/playlist", query, &playlists); err != nil {
		return nil, err
	}
	return &playlists, nil
}

// ListAssets lists the assets of the configured collection
func (g *GumletClient) ListAssets(page, limit int) (*PlaylistAssets, error) {
	var assets PlaylistAssets
	query := map[string]string{
		"page":  fmt.Sprintf("%d", page),
		"limit": fmt.Sprintf("%d", limit),
	}
	if err := g.get("/video/assets/list/"+g.collectionID, query, &assets); err != nil {
		return nil, err
	}
	return &assets, nil
}
