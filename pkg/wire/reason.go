package wire

// reasonPhrases holds only the status codes this server actually emits;
// anything else falls back to "Unknown Status".
var reasonPhrases = map[int]string{
	200: "OK",
	201: "Created",
	400: "Bad Request",
	404: "Not Found",
	405: "Method Not Allowed",
	406: "Not Acceptable",
	411: "Length Required",
	415: "Unsupported Media Type",
	500: "Internal Server Error",
	505: "HTTP Version Not Supported",
}

// ReasonPhrase returns the canonical reason phrase for status.
func ReasonPhrase(status int) string {
	if phrase, ok := reasonPhrases[status]; ok {
		return phrase
	}
	return "Unknown Status"
}
