package depgraph_test

import (
	"fmt"

	"github.com/matzehuels/depviz/pkg/depgraph"
)

func ExampleBuild() {
	idx := depgraph.Map{
		"app":     {"libcurl", "zlib"},
		"libcurl": {"zlib", "openssl"},
		"openssl": {},
		"zlib":    {},
	}

	g, cycle := depgraph.Build("app", idx)
	fmt.Println(g.Nodes())
	fmt.Println("cycle:", cycle)
	// Output:
	// [app libcurl zlib openssl]
	// cycle: false
}

func ExampleReverse() {
	idx := depgraph.Map{
		"app":     {"libcurl", "zlib"},
		"libcurl": {"zlib"},
		"zlib":    {},
	}

	rev := depgraph.Reverse("zlib", idx)
	for _, id := range rev.Nodes() {
		fmt.Println(id, "<-", rev.Deps(id))
	}
	// Output:
	// zlib <- [app libcurl]
	// app <- []
	// libcurl <- [app]
}
