// Command image-filter applies photo-editing filters to images from the
// command line.
package main

func main() {
	Execute()
}
