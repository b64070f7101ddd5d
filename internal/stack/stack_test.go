package stack

import (
	"reflect"
	"testing"
)

func TestStack_NewWithCapacity(t *testing.T) {
	s := NewWithCapacity[string](10)

	if cap(s.items) != 10 {
		t.Errorf("NewWithCapacity() capacity = %d, want 10", cap(s.items))
	}

	if !s.IsEmpty() {
		t.Error("NewWithCapacity() stack should be empty")
	}

	if s.Size() != 0 {
		t.Errorf("NewWithCapacity() stack size = %d, want 0", s.Size())
	}
}

func TestStack_PushAndPop(t *testing.T) {
	s := NewWithCapacity[int](0)

	s.Push(1)
	s.Push(2)
	s.Push(3)

	if s.Size() != 3 {
		t.Errorf("Push() stack size = %d, want 3", s.Size())
	}

	if s.IsEmpty() {
		t.Error("Push() stack should not be empty")
	}

	// LIFO order
	val, ok := s.Pop()
	if !ok || val != 3 {
		t.Errorf("Pop() = %d, %t, want 3, true", val, ok)
	}

	val, ok = s.Pop()
	if !ok || val != 2 {
		t.Errorf("Pop() = %d, %t, want 2, true", val, ok)
	}

	val, ok = s.Pop()
	if !ok || val != 1 {
		t.Errorf("Pop() = %d, %t, want 1, true", val, ok)
	}

	val, ok = s.Pop()
	if ok || val != 0 {
		t.Errorf("Pop() from empty stack = %d, %t, want 0, false", val, ok)
	}

	if !s.IsEmpty() {
		t.Error("Pop() stack should be empty after popping all elements")
	}
}

func TestStack_Peek(t *testing.T) {
	s := NewWithCapacity[string](0)

	val, ok := s.Peek()
	if ok || val != "" {
		t.Errorf("Peek() on empty stack = %q, %t, want \"\", false", val, ok)
	}

	s.Push("first")
	s.Push("second")

	val, ok = s.Peek()
	if !ok || val != "second" {
		t.Errorf("Peek() = %q, %t, want \"second\", true", val, ok)
	}

	// Ensure peek doesn't modify stack
	if s.Size() != 2 {
		t.Errorf("Peek() changed stack size to %d, want 2", s.Size())
	}

	val, ok = s.Peek()
	if !ok || val != "second" {
		t.Errorf("Second Peek() = %q, %t, want \"second\", true", val, ok)
	}
}

func TestStack_ZeroValue(t *testing.T) {
	var s Stack[string]

	if !s.IsEmpty() {
		t.Error("zero Stack should be empty")
	}

	s.Push("a")
	if got, ok := s.Peek(); !ok || got != "a" {
		t.Errorf("Peek() on zero Stack after Push = %q, %t, want \"a\", true", got, ok)
	}
}

func TestStack_At(t *testing.T) {
	s := NewWithCapacity[int](0)
	s.Push(10, 20, 30)

	for i, want := range []int{10, 20, 30} {
		if got := s.At(i); got != want {
			t.Errorf("At(%d) = %d, want %d", i, got, want)
		}
	}
}

func TestStack_All(t *testing.T) {
	s := NewWithCapacity[string](0)
	s.Push("root", "child", "leaf")

	var got []string
	for item := range s.All() {
		got = append(got, item)
	}

	want := []string{"root", "child", "leaf"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("All() = %v, want %v", got, want)
	}

	// restartable
	count := 0
	for range s.All() {
		count++
	}
	if count != 3 {
		t.Errorf("second All() iteration yielded %d items, want 3", count)
	}

	// early break
	for item := range s.All() {
		if item != "root" {
			t.Errorf("first item = %q, want \"root\"", item)
		}
		break
	}
}

func TestStack_PopClearsSlot(t *testing.T) {
	s := NewWithCapacity[*int](2)
	v := 1
	s.Push(&v)
	s.Pop()

	if s.items[:1][0] != nil {
		t.Error("Pop() should clear the vacated slot")
	}
}

func TestStack_GenericTypes(t *testing.T) {
	type TestStruct struct {
		Name string
		ID   int
	}

	s := NewWithCapacity[TestStruct](0)
	s.Push(TestStruct{Name: "first", ID: 1})
	s.Push(TestStruct{Name: "second", ID: 2})

	val, ok := s.Pop()
	if !ok || val.Name != "second" || val.ID != 2 {
		t.Errorf("Pop() = %+v, %t, want {Name:second ID:2}, true", val, ok)
	}

	ps := NewWithCapacity[*TestStruct](0)
	obj1 := &TestStruct{Name: "obj1", ID: 1}
	obj2 := &TestStruct{Name: "obj2", ID: 2}

	ps.Push(obj1)
	ps.Push(obj2)

	pval, ok := ps.Pop()
	if !ok || pval != obj2 {
		t.Errorf("Pop() = %p, %t, want %p, true", pval, ok, obj2)
	}
}
