// Command dragon runs the bundled direct-manipulation diagrams.
package main

func main() {
	Execute()
}
