package gpu

import "testing"

func TestLookup(t *testing.T) {
	devs := []Device{
		{ID: 0, Name: "Tesla T4", ComputeCapability: 7.5},
		{ID: 2, Name: "A100", ComputeCapability: 8.0},
	}
	d, ok := Lookup(devs, 2)
	if !ok || d.Name != "A100" {
		t.Fatalf("got %+v ok=%v", d, ok)
	}
	if _, ok := Lookup(devs, 1); ok {
		t.Fatal("id 1 should not resolve")
	}
	if _, ok := Lookup(nil, 0); ok {
		t.Fatal("empty inventory should not resolve")
	}
}

func TestIDs(t *testing.T) {
	devs := []Device{{ID: 0}, {ID: 3}}
	ids := IDs(devs)
	if len(ids) != 2 || ids[0] != 0 || ids[1] != 3 {
		t.Fatalf("ids = %v", ids)
	}
}

func TestDeviceString(t *testing.T) {
	d := Device{ID: 0, Name: "Tesla T4", ComputeCapability: 7.5}
	if got := d.String(); got != "gpu0 (Tesla T4, cc 7.5)" {
		t.Fatalf("got %q", got)
	}
	unknown := Device{ID: 1, Name: "card"}
	if got := unknown.String(); got != "gpu1 (card)" {
		t.Fatalf("got %q", got)
	}
}
