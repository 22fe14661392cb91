package tui

import "github.com/vito/progrock"

// StatusMsg carries one status update recorded by the build.
type StatusMsg struct {
	Update *progrock.StatusUpdate
}

// FeedClosedMsg reports that no more updates will arrive.
type FeedClosedMsg struct{}
