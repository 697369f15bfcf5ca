package handler

// Export for testing
type FeedResponse = feedResponse
type CreateFeedResponse = createFeedResponse
type ErrorResponse = errorResponse

var WriteServiceError = writeServiceError
var NormalizeFeedID = normalizeFeedID
var SplitFeedFile = splitFeedFile
