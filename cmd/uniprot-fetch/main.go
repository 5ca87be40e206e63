// Command uniprot-fetch searches UniProt and retrieves matching sequence
// records through the asynchronous batch-export protocol.
package main

func main() {
	Execute()
}
