package ledger

// targetContractABI is the subset of the target contract interface
// needed to decode createTarget calls from raw transaction data.
const targetContractABI = `[
	{
		"type": "function",
		"name": "createTarget",
		"inputs": [
			{"name": "_ipfsHash", "type": "string"},
			{"name": "_daysRequired", "type": "uint256"},
			{"name": "_chapterCount", "type": "uint256"}
		],
		"outputs": [{"name": "", "type": "uint256"}],
		"stateMutability": "nonpayable"
	},
	{
		"type": "function",
		"name": "submitChapterScore",
		"inputs": [
			{"name": "targetId", "type": "uint256"},
			{"name": "chapterIndex", "type": "uint256"},
			{"name": "score", "type": "uint256"}
		],
		"outputs": [],
		"stateMutability": "nonpayable"
	},
	{
		"type": "event",
		"name": "TargetCreated",
		"inputs": [
			{"name": "user", "type": "address", "indexed": true},
			{"name": "targetId", "type": "uint256", "indexed": true},
			{"name": "ipfsHash", "type": "string", "indexed": false}
		],
		"anonymous": false
	}
]`
