// Command survcut searches tumor size cutpoints that separate the
// survival of a patient cohort and fits the accompanying Cox models.
package main

func main() {
	Execute()
}
