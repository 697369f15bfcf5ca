package http

var RegisterStatic = registerStatic
var IsAPIPath = isAPIPath
