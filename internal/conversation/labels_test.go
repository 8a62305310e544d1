package conversation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAgo(t *testing.T) {
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	labels := EnglishLabels()

	cases := []struct {
		ago  time.Duration
		want string
	}{
		{10 * time.Second, "less than a minute ago"},
		{-time.Minute, "less than a minute ago"},
		{time.Minute, "1 minute ago"},
		{5 * time.Minute, "5 minutes ago"},
		{50 * time.Minute, "about 1 hour ago"},
		{3 * time.Hour, "about 3 hours ago"},
		{30 * time.Hour, "1 day ago"},
		{5 * 24 * time.Hour, "5 days ago"},
		{40 * 24 * time.Hour, "about 1 month ago"},
		{200 * 24 * time.Hour, "7 months ago"},
		{400 * 24 * time.Hour, "about 1 year ago"},
		{(2*360 + 150) * 24 * time.Hour, "over 2 years ago"},
		{(2*360 + 300) * 24 * time.Hour, "almost 3 years ago"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, labels.Ago(now.Add(-tc.ago), now), tc.ago.String())
	}
}

func TestAgoSpanish(t *testing.T) {
	labels, err := NewLabels("es")
	require.NoError(t, err)

	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "hace 5 minutos", labels.Ago(now.Add(-5*time.Minute), now))
	assert.Equal(t, "hace 1 día", labels.Ago(now.Add(-30*time.Hour), now))
}

func TestAgoWithoutLabels(t *testing.T) {
	var labels *Labels
	now := time.Now()
	assert.Equal(t, "5 minutes ago", labels.Ago(now.Add(-5*time.Minute), now))
	assert.Equal(t, "1 minute ago", labels.Ago(now.Add(-time.Minute), now))
}
