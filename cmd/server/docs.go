package main

//go:generate swag init -g cmd/server/main.go -o docs

// @title           gexwatch API
// @version         0.1.0
// @description     Watchlist management and gamma exposure queries.
// @host            localhost:8080
// @BasePath        /
// @schemes         http
