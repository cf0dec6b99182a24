// Package dashboard aggregates site-wide statistics for moderators.
package dashboard

// Stats is the dashboard payload: row counts per entity plus the recent
// registration feed.
type Stats struct {
	UserCount     int64    `json:"user_count"`
	CategoryCount int64    `json:"category_count"`
	ForumCount    int64    `json:"forum_count"`
	ThreadCount   int64    `json:"thread_count"`
	PostCount     int64    `json:"post_count"`
	RecentUsers   []string `json:"recent_users"`
}
