// Pipesim runs link-training signaling scenarios of a high-speed serial
// interconnect.
package main

func main() {
	Execute()
}
