package repository

// Export for testing
var EncodeFeed = encodeFeed
var DecodeFeed = decodeFeed
var ToMillis = toMillis
var FromMillis = fromMillis
