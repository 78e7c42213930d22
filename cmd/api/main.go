// Command api runs the library API.
package main

func main() {
	Execute()
}
