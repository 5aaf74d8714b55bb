package main

// Blank imports ensure calculator init() registration runs for the CLI binary.
import (
	_ "github.com/alexisbeaulieu97/nobra/internal/calculators/chads2"
	_ "github.com/alexisbeaulieu97/nobra/internal/calculators/childpugh"
	_ "github.com/alexisbeaulieu97/nobra/internal/calculators/cpp"
	_ "github.com/alexisbeaulieu97/nobra/internal/calculators/lace"
	_ "github.com/alexisbeaulieu97/nobra/internal/calculators/ldl"
	_ "github.com/alexisbeaulieu97/nobra/internal/calculators/rems"
	_ "github.com/alexisbeaulieu97/nobra/internal/calculators/rox"
	_ "github.com/alexisbeaulieu97/nobra/internal/calculators/winters"
)
