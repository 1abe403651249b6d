package response

import (
	"movie-explorer/internal/data/entity"
)

type WatchlistEntryResponse struct {
	*entity.WatchlistEntry
	PosterURL string `json:"posterUrl,omitempty"`
}

type WatchlistStatusResponse struct {
	InWatchlist bool                    `json:"inWatchlist"`
	Entry       *WatchlistEntryResponse `json:"entry,omitempty"`
}

func WatchlistEntryToResponse(entry *entity.WatchlistEntry, imageBaseURL string) WatchlistEntryResponse {
	return WatchlistEntryResponse{
		WatchlistEntry: entry,
		PosterURL:      posterURL(imageBaseURL, entry.PosterPath),
	}
}

func WatchlistToResponse(entries []*entity.WatchlistEntry, imageBaseURL string) []WatchlistEntryResponse {
	resp := make([]WatchlistEntryResponse, 0, len(entries))
	for _, entry := range entries {
		resp = append(resp, WatchlistEntryToResponse(entry, imageBaseURL))
	}
	return resp
}

func WatchlistStatusToResponse(entry *entity.WatchlistEntry, imageBaseURL string) WatchlistStatusResponse {
	if entry == nil {
		return WatchlistStatusResponse{}
	}
	e := WatchlistEntryToResponse(entry, imageBaseURL)
	return WatchlistStatusResponse{InWatchlist: true, Entry: &e}
}
