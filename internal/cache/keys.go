package cache

import "strconv"

// Versioned keys so a payload shape change can bust old entries.

func ArticlesListKey() string {
	return "articles:list:v1"
}

func ArticleKey(id int64) string {
	return "articles:id:v1:" + strconv.FormatInt(id, 10)
}
