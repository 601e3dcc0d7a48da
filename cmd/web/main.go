package main

import "phonebook_backend/internal/app"

func main() {
	app.Run()
}
