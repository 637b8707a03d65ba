package testutil

import (
	"fmt"
	"strings"
)

// SeriesPageHTML renders a series root page linking to the given season paths,
// surrounded by navigation links that must not match any pattern.
func SeriesPageHTML(title string, seasonPaths ...string) string {
	var sb strings.Builder
	sb.WriteString("<html>\n<head><title>")
	sb.WriteString(title)
	sb.WriteString("</title></head>\n<body>\n")
	sb.WriteString(`<nav><a href="/serien">Serien</a><a href="/account">Konto</a></nav>` + "\n")
	sb.WriteString(`<div id="stream"><ul>` + "\n")
	for i, path := range seasonPaths {
		fmt.Fprintf(&sb, "\t<li><a href=\"%s\" title=\"Staffel %d\">%d</a></li>\n", path, i+1, i+1)
	}
	sb.WriteString("</ul></div>\n</body>\n</html>")
	return sb.String()
}

// SeasonPageHTML renders a season page listing the given episode paths.
// Every episode is linked twice, like the real episode table does.
func SeasonPageHTML(episodePaths ...string) string {
	var sb strings.Builder
	sb.WriteString("<html>\n<body>\n<table class=\"seasonEpisodesList\"><tbody>\n")
	for i, path := range episodePaths {
		fmt.Fprintf(&sb, "\t<tr><td><a href=\"%s\">Folge %d</a></td><td><a href=\"%s\"><strong>Episode</strong></a></td></tr>\n", path, i+1, path)
	}
	sb.WriteString("</tbody></table>\n</body>\n</html>")
	return sb.String()
}

// EpisodePageHTML renders an episode page whose hoster list points at the given redirect paths.
func EpisodePageHTML(redirectPaths ...string) string {
	var sb strings.Builder
	sb.WriteString("<html>\n<body>\n<ul class=\"row\">\n")
	for _, path := range redirectPaths {
		fmt.Fprintf(&sb, "\t<li data-link-target=\"%s\"><a class=\"watchEpisode\" href=\"%s\" target=\"_blank\">Hoster</a></li>\n", path, path)
	}
	sb.WriteString("</ul>\n</body>\n</html>")
	return sb.String()
}
