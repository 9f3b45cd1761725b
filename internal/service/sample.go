package service

import "fmt"

// shuffledIndices 对[0..n-1]做原地Fisher–Yates洗牌：i从最后一个下标往下到1，与[0,i]里均匀选出的j交换
func shuffledIndices(intn func(int) int, n int) []int {
	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}
	for i := n - 1; i > 0; i-- {
		j := intn(i + 1)
		indices[i], indices[j] = indices[j], indices[i]
	}
	return indices
}

// PickRandomSubset 无放回地均匀抽取min(n, len(items))个元素。
// parallel可以为nil；不为nil时必须与items等长，并按同一排列投影，保证两边按原下标配对。
func PickRandomSubset[T, P any](intn func(int) int, items []T, parallel []P, n int) ([]T, []P) {
	if parallel != nil && len(parallel) != len(items) {
		panic(fmt.Sprintf("PickRandomSubset: parallel长度%d与items长度%d不一致", len(parallel), len(items)))
	}
	if n < 0 {
		n = 0
	}
	if n > len(items) {
		n = len(items)
	}

	indices := shuffledIndices(intn, len(items))[:n]
	pickedItems := make([]T, 0, n)
	var pickedParallel []P
	if parallel != nil {
		pickedParallel = make([]P, 0, n)
	}
	for _, idx := range indices {
		pickedItems = append(pickedItems, items[idx])
		if parallel != nil {
			pickedParallel = append(pickedParallel, parallel[idx])
		}
	}
	return pickedItems, pickedParallel
}
