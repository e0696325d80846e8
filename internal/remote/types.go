package remote

// ChatRequest is the body posted to the chat endpoint.
type ChatRequest struct {
	Question string `json:"question"`
}

// ChatResponse is the part of the chat endpoint's reply that cxdash reads.
// Other fields (sources and the like) are ignored.
type ChatResponse struct {
	Answer string `json:"answer"`
}
