package generator_test

import (
	"fmt"

	"github.com/canastic/generator"
)

func ExampleNew() {
	g := generator.New(func(c *generator.Context[int]) {
		a, b := 0, 1
		for a < 20 {
			c.Yield(a)
			a, b = b, a+b
		}
	})

	for {
		v, ok := g.Next()
		if !ok {
			break
		}
		fmt.Println(v)
	}

	// Output:
	// 0
	// 1
	// 1
	// 2
	// 3
	// 5
	// 8
	// 13
}

func ExampleGenerator_All() {
	words := generator.New(func(c *generator.Context[string]) {
		generator.Yield(c, "Hello")
		generator.Yield(c, "World")
	})

	for w := range words.All() {
		fmt.Println(w)
	}
	fmt.Println("done:", words.Done())

	// Output:
	// Hello
	// World
	// done: true
}

func ExampleNewIterator() {
	it := generator.NewIterator(func(yield func(int)) error {
		for i := 1; i <= 3; i++ {
			yield(i)
		}
		return fmt.Errorf("done")
	})

	for it.Next() {
		fmt.Println("yielded:", it.Yielded)
	}
	fmt.Println("returned:", it.Returned)

	// Output:
	// yielded: 1
	// yielded: 2
	// yielded: 3
	// returned: done
}
