package eureka_test

import (
	"context"
	"fmt"

	"github.com/ezachrisen/eureka"
)

// Example shows the complete lifecycle: declare concepts, install a
// heuristic, seed the agenda, run, and inspect what was discovered.
func Example() {
	engine := eureka.NewEngine()
	store := engine.Store()

	if _, err := store.Create("number-sequence"); err != nil {
		fmt.Println(err)
		return
	}
	if err := store.Set("number-sequence", eureka.SlotWorth, 600); err != nil {
		fmt.Println(err)
		return
	}
	if err := store.Set("number-sequence", eureka.SlotExamples, []any{1, 4, 9, 16}); err != nil {
		fmt.Println(err)
		return
	}

	h, err := engine.NewHeuristic("h-square-spotter", 700)
	if err != nil {
		fmt.Println(err)
		return
	}

	// Cheap guard: only tasks about examples.
	err = h.SetPhase(eureka.PhaseIfWorkingOnTask,
		func(h *eureka.Heuristic, c *eureka.Context) (bool, error) {
			return c.Slot == eureka.SlotExamples, nil
		})
	if err != nil {
		fmt.Println(err)
		return
	}

	// Effect: conjecture when every example is a perfect square.
	err = h.SetPhase(eureka.PhaseThenConjecture,
		func(h *eureka.Heuristic, c *eureka.Context) (bool, error) {
			for i, e := range c.Unit.Examples() {
				n, ok := e.(int)
				want := (i + 1) * (i + 1)
				if !ok || n != want {
					return false, nil
				}
			}
			_, err := c.Conjecture("examples are consecutive perfect squares",
				c.Unit.Examples()...)
			return err == nil, err
		})
	if err != nil {
		fmt.Println(err)
		return
	}

	engine.Agenda().Add(eureka.NewTask("number-sequence", eureka.SlotExamples, 500, "bootstrap"))

	res, err := engine.Run(context.Background(), 0)
	if err != nil {
		fmt.Println(err)
		return
	}

	fmt.Printf("tasks run: %d\n", res.TasksRun)
	fmt.Printf("new units: %v\n", res.NewUnits)
	fmt.Printf("claim: %v\n", store.Get("conjecture-1", eureka.SlotClaim, "none"))

	// Output:
	// tasks run: 1
	// new units: [conjecture-1]
	// claim: examples are consecutive perfect squares
}
