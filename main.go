package main

import "github.com/saadjs/kalki/cmd/kalki"

func main() {
	kalki.Execute()
}
