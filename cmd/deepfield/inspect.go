package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/lox/deepfield/internal/celestial"
	"github.com/lox/deepfield/internal/discovery"
	"github.com/lox/deepfield/internal/gen"
	"github.com/lox/deepfield/internal/region"
	"github.com/lox/deepfield/internal/spatial"
)

// InspectCmd prints one chunk.
type InspectCmd struct {
	CX    int64 `arg:"" name:"cx" help:"Chunk X coordinate"`
	CY    int64 `arg:"" name:"cy" help:"Chunk Y coordinate"`
	World bool  `help:"Treat the arguments as world coordinates instead of chunk coordinates"`
}

func (c *InspectCmd) Run(g *Globals) error {
	s, err := g.setup(os.Stderr)
	if err != nil {
		return err
	}
	size := s.cfg.Universe.ChunkSize
	coord := spatial.ChunkCoord{X: c.CX, Y: c.CY}
	if c.World {
		coord = spatial.ChunkOf(float64(c.CX), float64(c.CY), size)
	}

	classifier := region.NewClassifier(s.seed, region.WithLogger(s.logger))
	generator := gen.New(s.seed, classifier, gen.WithChunkSize(size), gen.WithLogger(s.logger))
	ch := generator.Generate(coord)
	ch.Seal()

	printTitle(os.Stdout, "Chunk %s (seed %d)", coord, s.seed)
	ox, oy := coord.Origin(size)
	fmt.Printf("origin: %.0f, %.0f  size: %.0f\n", ox, oy, size)
	fmt.Printf("region: %s  influence: %.2f  distance: %.0f\n", ch.Region.Type, ch.Region.Influence, ch.Region.Distance)
	fmt.Printf("generation seed: %d  background stars: %d  skipped placements: %d\n", ch.Seed, len(ch.Background), ch.Skipped)
	fmt.Printf("digest: %s\n\n", ch.Digest())

	objects := newTable("#", "Kind", "Name", "X", "Y", "Detail", "Identity")
	for i, obj := range ch.Objects {
		b := obj.Base()
		objects.Row(strconv.Itoa(i), obj.Kind().String(), b.Name,
			fmt.Sprintf("%.1f", b.X), fmt.Sprintf("%.1f", b.Y), describe(obj), discovery.IdentityOf(obj))
	}
	fmt.Println(objects.Render())

	if len(ch.Exports) > 0 {
		exports := newTable("Host", "Kind", "Name", "X", "Y", "Identity")
		for _, e := range ch.Exports {
			b := e.Object.Base()
			exports.Row(e.Host.String(), e.Object.Kind().String(), b.Name,
				fmt.Sprintf("%.1f", b.X), fmt.Sprintf("%.1f", b.Y), e.Key)
		}
		fmt.Println(exports.Render())
	}
	return nil
}

func describe(obj celestial.Object) string {
	switch o := obj.(type) {
	case *celestial.Star:
		return fmt.Sprintf("%s, %d planets", o.Type, len(o.Planets))
	case *celestial.Planet:
		rings := ""
		if o.Rings {
			rings = ", rings"
		}
		return fmt.Sprintf("%s, orbit %.0f%s, %d moons", o.Type, o.Distance, rings, len(o.Moons))
	case *celestial.Moon:
		return fmt.Sprintf("orbit %.1f around #%d", o.Distance, o.Parent)
	case *celestial.Nebula:
		return fmt.Sprintf("%s, radius %.0f", o.Type, o.Radius)
	case *celestial.AsteroidField:
		return fmt.Sprintf("%d rocks, radius %.0f", o.Count, o.Radius)
	case *celestial.Wormhole:
		return fmt.Sprintf("%s, partner %.0f, %.0f", o.Role, o.PartnerX, o.PartnerY)
	case *celestial.BlackHole:
		return fmt.Sprintf("mass %.1f, horizon %.0f", o.Mass, o.EventHorizon)
	case *celestial.Pulsar:
		return fmt.Sprintf("period %.2fs", o.Period)
	case *celestial.Protostar:
		return fmt.Sprintf("accretion %.2f", o.Accretion)
	case *celestial.RoguePlanet:
		return o.Type.String()
	case *celestial.IonStorm:
		return fmt.Sprintf("intensity %.2f", o.Intensity)
	}
	panic(fmt.Sprintf("unhandled object type %T", obj))
}
