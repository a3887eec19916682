package main

// @title           Sunweather API
// @version         1.0
// @description     Current temperature and today's sunrise and sunset for one location.

// @contact.name   API Support
// @contact.email  support@example.com

// @host      localhost:8080
// @BasePath  /
