package main

import "github.com/dbsmedya/seqqc/cmd/seqqc/cmd"

func main() {
	cmd.Execute()
}
